package telemetry

// Value is a raw cell of a telemetry log that is not mapped onto a named channel
type Value struct {
	Number *float64 `json:"number,omitempty"` // Set when the cell parsed as a number
	Text   string   `json:"text,omitempty"`   // Raw text otherwise
}

// IsNumber reports whether the cell parsed as a number
func (v Value) IsNumber() bool {
	return v.Number != nil
}

// Sample is a single row of a radio telemetry log, ordered by its position in
// the log. Only Index and Time are always present.
type Sample struct {
	Index int     `json:"index"` // Position in the parsed sequence
	Time  float64 `json:"time"`  // Seconds or milliseconds, defaults to Index

	GPSAltitude   *float64 `json:"gpsAltitude,omitempty"`   // Altitude in meters
	GPSSpeed      *float64 `json:"gpsSpeed,omitempty"`      // Ground speed, km/h (or m/s below 5)
	GPSCourse     *float64 `json:"gpsCourse,omitempty"`     // Ground course in degrees
	VerticalSpeed *float64 `json:"verticalSpeed,omitempty"` // Vertical speed in m/s
	Pitch         *float64 `json:"pitch,omitempty"`
	Roll          *float64 `json:"roll,omitempty"`
	Yaw           *float64 `json:"yaw,omitempty"`
	Battery       *float64 `json:"battery,omitempty"`   // Receiver battery voltage
	Current       *float64 `json:"current,omitempty"`   // Current draw in A
	Capacity      *float64 `json:"capacity,omitempty"`  // Consumed capacity in mAh
	RxQuality     *float64 `json:"rxQuality,omitempty"` // Receiver link quality in %
	TxQuality     *float64 `json:"txQuality,omitempty"` // Transmitter link quality in %
	TxPower       *float64 `json:"txPower,omitempty"`   // Transmitter power in mW
	Aileron       *float64 `json:"aileron,omitempty"`
	Elevator      *float64 `json:"elevator,omitempty"`
	Throttle      *float64 `json:"throttle,omitempty"`
	Rudder        *float64 `json:"rudder,omitempty"`

	Extra map[string]Value `json:"extra,omitempty"` // Columns without a named channel
}

// GpsFix is a single position of a flight track, either parsed from a GPS log
// or synthesized from telemetry.
type GpsFix struct {
	Lat  float64 `json:"lat"`            // Latitude in degrees
	Lon  float64 `json:"lon"`            // Longitude in degrees
	Time string  `json:"time,omitempty"` // Timestamp as found in the log

	Altitude      *float64 `json:"altitude,omitempty"`      // Altitude in meters
	Satellites    *int     `json:"satellites,omitempty"`    // Number of satellites in view
	GroundSpeed   *float64 `json:"groundSpeed,omitempty"`   // Ground speed in km/h
	GroundCourse  *float64 `json:"groundCourse,omitempty"`  // Ground course (heading) in degrees
	VerticalSpeed *float64 `json:"verticalSpeed,omitempty"` // Vertical speed in m/s
	Pitch         *float64 `json:"pitch,omitempty"`
	Roll          *float64 `json:"roll,omitempty"`
	Yaw           *float64 `json:"yaw,omitempty"`
	Battery       *float64 `json:"battery,omitempty"`
	Current       *float64 `json:"current,omitempty"`
	Capacity      *float64 `json:"capacity,omitempty"`
	RxQuality     *float64 `json:"rxQuality,omitempty"`
	TxQuality     *float64 `json:"txQuality,omitempty"`
	TxPower       *float64 `json:"txPower,omitempty"`
	Aileron       *float64 `json:"aileron,omitempty"`
	Elevator      *float64 `json:"elevator,omitempty"`
	Throttle      *float64 `json:"throttle,omitempty"`
	Rudder        *float64 `json:"rudder,omitempty"`
}
