package telemetry

import "strings"

// GPSHeader is the exact header line of a GPS track log
const GPSHeader = "time,GPS_numSat,GPS_coord[0],GPS_coord[1],GPS_altitude,GPS_speed,GPS_ground_course," +
	"VSpd,Pitch,Roll,Yaw,RxBt,Curr,Capa,RQly,TQly,TPWR,Ail,Ele,Thr,Rud"

type channel int

const (
	chNone channel = iota
	chTime
	chSatellites
	chLatitude
	chLongitude
	chAltitude
	chSpeed
	chCourse
	chVerticalSpeed
	chPitch
	chRoll
	chYaw
	chBattery
	chCurrent
	chCapacity
	chRxQuality
	chTxQuality
	chTxPower
	chAileron
	chElevator
	chThrottle
	chRudder
)

// channelNames maps lower-cased column names, including the unit-suffixed
// names of EdgeTX/OpenTX logs, onto channels.
var channelNames = map[string]channel{
	"time": chTime,

	"gps_numsat": chSatellites,
	"sats":       chSatellites,

	"gps_coord[0]": chLatitude,
	"gps_coord[1]": chLongitude,

	"gps_altitude": chAltitude,
	"alt":          chAltitude,
	"alt(m)":       chAltitude,

	"gps_speed":  chSpeed,
	"gspd":       chSpeed,
	"gspd(kmh)":  chSpeed,
	"gspd(km/h)": chSpeed,

	"gps_ground_course": chCourse,
	"hdg":               chCourse,
	"hdg(@)":            chCourse,

	"vspd":      chVerticalSpeed,
	"vspd(m/s)": chVerticalSpeed,

	"pitch":     chPitch,
	"ptch":      chPitch,
	"ptch(rad)": chPitch,
	"roll":      chRoll,
	"roll(rad)": chRoll,
	"yaw":       chYaw,
	"yaw(rad)":  chYaw,

	"rxbt":      chBattery,
	"rxbt(v)":   chBattery,
	"curr":      chCurrent,
	"curr(a)":   chCurrent,
	"capa":      chCapacity,
	"capa(mah)": chCapacity,
	"rqly":      chRxQuality,
	"rqly(%)":   chRxQuality,
	"tqly":      chTxQuality,
	"tqly(%)":   chTxQuality,
	"tpwr":      chTxPower,
	"tpwr(mw)":  chTxPower,

	"ail": chAileron,
	"ele": chElevator,
	"thr": chThrottle,
	"rud": chRudder,
}

func lookupChannel(column string) channel {
	return channelNames[strings.ToLower(strings.TrimSpace(column))]
}

// sampleChannel returns the named field of a sample backing ch, or nil when
// the sample has no such field.
func sampleChannel(s *Sample, ch channel) **float64 {
	switch ch {
	case chAltitude:
		return &s.GPSAltitude
	case chSpeed:
		return &s.GPSSpeed
	case chCourse:
		return &s.GPSCourse
	case chVerticalSpeed:
		return &s.VerticalSpeed
	case chPitch:
		return &s.Pitch
	case chRoll:
		return &s.Roll
	case chYaw:
		return &s.Yaw
	case chBattery:
		return &s.Battery
	case chCurrent:
		return &s.Current
	case chCapacity:
		return &s.Capacity
	case chRxQuality:
		return &s.RxQuality
	case chTxQuality:
		return &s.TxQuality
	case chTxPower:
		return &s.TxPower
	case chAileron:
		return &s.Aileron
	case chElevator:
		return &s.Elevator
	case chThrottle:
		return &s.Throttle
	case chRudder:
		return &s.Rudder
	default:
		return nil
	}
}

// fixChannel is the GpsFix counterpart of sampleChannel
func fixChannel(f *GpsFix, ch channel) **float64 {
	switch ch {
	case chAltitude:
		return &f.Altitude
	case chSpeed:
		return &f.GroundSpeed
	case chCourse:
		return &f.GroundCourse
	case chVerticalSpeed:
		return &f.VerticalSpeed
	case chPitch:
		return &f.Pitch
	case chRoll:
		return &f.Roll
	case chYaw:
		return &f.Yaw
	case chBattery:
		return &f.Battery
	case chCurrent:
		return &f.Current
	case chCapacity:
		return &f.Capacity
	case chRxQuality:
		return &f.RxQuality
	case chTxQuality:
		return &f.TxQuality
	case chTxPower:
		return &f.TxPower
	case chAileron:
		return &f.Aileron
	case chElevator:
		return &f.Elevator
	case chThrottle:
		return &f.Throttle
	case chRudder:
		return &f.Rudder
	default:
		return nil
	}
}
