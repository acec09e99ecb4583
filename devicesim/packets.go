package devicesim

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

const (
	// FloorTrackingClientIDPrefix identifies the station scanners.
	FloorTrackingClientIDPrefix = "floor-tracking-TEST"
	// PCTClientIDPrefix identifies the production devices.
	PCTClientIDPrefix = "PCT-TEST"
)

// RFIDState raises or clears a device's RFID error.
type RFIDState string

const (
	RFIDErrorRaised  RFIDState = "ar"
	RFIDErrorCleared RFIDState = "ac"
)

// Publication is a single message of a simulated device.
type Publication struct {
	ClientIDPrefix string
	Topic          string
	QoS            byte
	Retained       bool
	Payload        []byte
}

// TrolleyState is a station scan of a trolley: u64 ms, i16 status, i16 station, i16 trolley, u8 len, barcode.
func TrolleyState(at time.Time, status, stationID, trolleyID int16, barcode string) (Publication, error) {
	if len(barcode) > math.MaxUint8 {
		return Publication{}, fmt.Errorf("barcode is %d bytes long, at most %d bytes fit in a packet", len(barcode), math.MaxUint8)
	}

	var buf bytes.Buffer
	write(&buf,
		uint64(at.UnixMilli()),
		status,
		stationID,
		trolleyID,
		uint8(len(barcode)),
	)
	buf.WriteString(barcode)

	return Publication{
		ClientIDPrefix: FloorTrackingClientIDPrefix,
		Topic:          fmt.Sprintf("s/%d/bd", stationID),
		QoS:            2,
		Payload:        buf.Bytes(),
	}, nil
}

// OperatorState logs a user in or out of a device: u64 µs, u16 user, i8 state.
func OperatorState(at time.Time, state int8, userID uint16, deviceID string) Publication {
	var buf bytes.Buffer
	write(&buf, uint64(at.UnixMicro()), userID, state)

	return Publication{
		ClientIDPrefix: PCTClientIDPrefix,
		Topic:          fmt.Sprintf("d/%s/login", deviceID),
		QoS:            2,
		Payload:        buf.Bytes(),
	}
}

// DeviceState is the retained status of a device.
func DeviceState(deviceID, status string) (Publication, error) {
	payload, err := json.Marshal(struct {
		Status string `json:"status"`
	}{Status: status})
	if err != nil {
		return Publication{}, err
	}

	return Publication{
		ClientIDPrefix: PCTClientIDPrefix,
		Topic:          fmt.Sprintf("d/%s/status", deviceID),
		QoS:            0,
		Retained:       true,
		Payload:        payload,
	}, nil
}

// RFIDError raises or clears the RFID error of a device: u64 µs, i8 0.
func RFIDError(at time.Time, deviceID string, state RFIDState) (Publication, error) {
	switch state {
	case RFIDErrorRaised, RFIDErrorCleared:
	default:
		return Publication{}, fmt.Errorf("invalid RFID state (%s), expected %s or %s", state, RFIDErrorRaised, RFIDErrorCleared)
	}

	var buf bytes.Buffer
	write(&buf, uint64(at.UnixMicro()), int8(0))

	return Publication{
		ClientIDPrefix: PCTClientIDPrefix,
		Topic:          fmt.Sprintf("d/%s/%s", deviceID, state),
		QoS:            2,
		Payload:        buf.Bytes(),
	}, nil
}

// write packs fixed size values little-endian without padding; writes to a bytes.Buffer cannot fail.
func write(buf *bytes.Buffer, values ...any) {
	for _, value := range values {
		_ = binary.Write(buf, binary.LittleEndian, value)
	}
}
