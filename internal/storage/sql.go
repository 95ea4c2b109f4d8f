package storage

import (
	_ "embed"
)

const (
	insertFlightSQL = `
INSERT INTO flights (
                     created_at,
                     name,
                     source,
                     departure_lat,
                     departure_lon,
                     landing_lat,
                     landing_lon,
                     synthesized)
VALUES (CURRENT_TIMESTAMP, ?, ?, ?, ?, ?, ?, ?)`

	selectFlightSQL = `
SELECT
    f.id,
    f.created_at,
    f.name,
    f.source,
    f.departure_lat,
    f.departure_lon,
    f.landing_lat,
    f.landing_lon,
    f.synthesized,
    (SELECT COUNT(*) FROM fixes x WHERE x.flight_id = f.id)
FROM flights f
WHERE
    f.id = ?`

	selectFlightsSQL = `
SELECT
    f.id,
    f.created_at,
    f.name,
    f.source,
    f.departure_lat,
    f.departure_lon,
    f.landing_lat,
    f.landing_lon,
    f.synthesized,
    (SELECT COUNT(*) FROM fixes x WHERE x.flight_id = f.id)
FROM flights f
ORDER BY f.created_at, f.id`

	insertFixesSQL = `
INSERT INTO fixes (flight_id,
                   seq,
                   time,
                   latitude,
                   longitude,
                   altitude,
                   satellites,
                   ground_speed,
                   ground_course,
                   vertical_speed,
                   pitch,
                   roll,
                   yaw,
                   battery,
                   current,
                   capacity,
                   rx_quality,
                   tx_quality,
                   tx_power,
                   aileron,
                   elevator,
                   throttle,
                   rudder)
VALUES `

	fixValuesPlaceholder = "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	fixColumns           = 23

	selectNextSeqSQL = `
SELECT COALESCE(MAX(seq) + 1, 0)
FROM fixes
WHERE
    flight_id = ?`

	selectFixesSQL = `
SELECT
    seq,
    time,
    latitude,
    longitude,
    altitude,
    satellites,
    ground_speed,
    ground_course,
    vertical_speed,
    pitch,
    roll,
    yaw,
    battery,
    current,
    capacity,
    rx_quality,
    tx_quality,
    tx_power,
    aileron,
    elevator,
    throttle,
    rudder
FROM fixes
WHERE
    flight_id = ?
    AND seq >= ?
ORDER BY seq
LIMIT ?`

	initIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_flights_created_at ON flights (created_at);`
)

//go:embed schema.sql
var initSchemaSQL string
