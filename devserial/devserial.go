// Package devserial implements the serial protocol spoken between the host
// and the robot.
//
// Every packet is a type byte, a fixed little-endian payload (or a length
// prefixed message) and a CRC-32 (IEEE) of everything before it.
package devserial

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

// Endianness defines the endianness of the protocol.
var Endianness = binary.LittleEndian

// IncomingPacketType is a type of packet sent by the host to the robot.
type IncomingPacketType uint8

const (
	TypeInitializePacket IncomingPacketType = iota
	TypeIndicatorPacket
	TypeDrivePacket
	TypeLightsPacket
	TypeSampleRequestPacket
)

// String returns a string representation of the packet type.
func (t IncomingPacketType) String() string {
	switch t {
	case TypeInitializePacket:
		return "initialize"
	case TypeIndicatorPacket:
		return "indicator"
	case TypeDrivePacket:
		return "drive"
	case TypeLightsPacket:
		return "lights"
	case TypeSampleRequestPacket:
		return "sample-request"
	default:
		return fmt.Sprintf("IncomingPacketType(%d)", t)
	}
}

// IncomingPacket is a packet sent by the host to the robot.
type IncomingPacket interface {
	// Type returns the type of packet.
	Type() IncomingPacketType
}

// InitializePacket resets the robot: indicator and lights off, motors
// stopped.
type InitializePacket struct{}

// IndicatorPacket sets the RGB indicator.
type IndicatorPacket struct {
	R, G, B uint8
}

// DrivePacket drives the motors. Direction values match game.Direction.
type DrivePacket struct {
	Direction uint8
	Left      uint16
	Right     uint16
}

// LightsPacket sets the chassis lights. Bits match indicator.Lights.
type LightsPacket struct {
	Bits uint8
}

// SampleRequestPacket asks the robot for one color sensor sample.
type SampleRequestPacket struct{}

func (p InitializePacket) Type() IncomingPacketType    { return TypeInitializePacket }
func (p IndicatorPacket) Type() IncomingPacketType     { return TypeIndicatorPacket }
func (p DrivePacket) Type() IncomingPacketType         { return TypeDrivePacket }
func (p LightsPacket) Type() IncomingPacketType        { return TypeLightsPacket }
func (p SampleRequestPacket) Type() IncomingPacketType { return TypeSampleRequestPacket }

// OutgoingPacketType is a type of packet sent by the robot to the host.
type OutgoingPacketType uint8

const (
	TypeAckPacket OutgoingPacketType = iota
	TypeErrorPacket
	TypePanicPacket
	TypeLogPacket
	TypeSamplePacket
	TypeCollisionPacket
)

// String returns a string representation of the packet type.
func (t OutgoingPacketType) String() string {
	switch t {
	case TypeAckPacket:
		return "ack"
	case TypeErrorPacket:
		return "error"
	case TypePanicPacket:
		return "panic"
	case TypeLogPacket:
		return "log"
	case TypeSamplePacket:
		return "sample"
	case TypeCollisionPacket:
		return "collision"
	default:
		return fmt.Sprintf("OutgoingPacketType(%d)", t)
	}
}

// OutgoingPacket is a packet sent by the robot to the host.
type OutgoingPacket interface {
	// Type returns the type of packet.
	Type() OutgoingPacketType
}

// AckPacket acknowledges an incoming packet.
type AckPacket struct {
	IncomingPacketType IncomingPacketType
}

// ErrorPacket is a packet that indicates an error occurred.
type ErrorPacket struct {
	Message string
}

// PanicPacket is a packet that indicates the robot cannot recover.
type PanicPacket struct{}

// LogPacket is a packet that contains a log message.
type LogPacket struct {
	Message string
}

// SamplePacket carries one normalized color sensor sample.
type SamplePacket struct {
	Red, Green, Blue uint16
}

// CollisionPacket reports a change of the bumper switches.
type CollisionPacket struct {
	Asserted bool
}

func (p AckPacket) Type() OutgoingPacketType       { return TypeAckPacket }
func (p ErrorPacket) Type() OutgoingPacketType     { return TypeErrorPacket }
func (p PanicPacket) Type() OutgoingPacketType     { return TypePanicPacket }
func (p LogPacket) Type() OutgoingPacketType       { return TypeLogPacket }
func (p SamplePacket) Type() OutgoingPacketType    { return TypeSamplePacket }
func (p CollisionPacket) Type() OutgoingPacketType { return TypeCollisionPacket }

// ErrChecksumMismatch is returned when a packet's trailer does not match its
// contents.
var ErrChecksumMismatch = fmt.Errorf("packet checksum mismatch")

// ErrUnknownPacketType is returned when a packet starts with a type byte that
// the reader does not know. Only the type byte is consumed.
var ErrUnknownPacketType = fmt.Errorf("unknown packet type")

// ReadIncomingPacket reads an incoming packet from the given reader.
func ReadIncomingPacket(r io.Reader) (IncomingPacket, error) {
	hash := crc32.NewIEEE()
	tr := io.TeeReader(r, hash)

	ptype, err := readType(tr)
	if err != nil {
		return nil, fmt.Errorf("failed to read incoming packet type: %w", err)
	}

	var packet IncomingPacket
	switch ptype := IncomingPacketType(ptype); ptype {
	case TypeInitializePacket:
		packet = InitializePacket{}

	case TypeIndicatorPacket:
		var p IndicatorPacket
		if err := binary.Read(tr, Endianness, &p); err != nil {
			return nil, fmt.Errorf("failed to read indicator color: %w", err)
		}
		packet = p

	case TypeDrivePacket:
		var p DrivePacket
		if err := binary.Read(tr, Endianness, &p); err != nil {
			return nil, fmt.Errorf("failed to read drive command: %w", err)
		}
		packet = p

	case TypeLightsPacket:
		var p LightsPacket
		if err := binary.Read(tr, Endianness, &p); err != nil {
			return nil, fmt.Errorf("failed to read lights: %w", err)
		}
		packet = p

	case TypeSampleRequestPacket:
		packet = SampleRequestPacket{}

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPacketType, ptype)
	}

	if err := readChecksum(r, hash.Sum32()); err != nil {
		return nil, err
	}

	return packet, nil
}

// WriteIncomingPacket writes an incoming packet to the given writer.
func WriteIncomingPacket(w io.Writer, p IncomingPacket) error {
	hash := crc32.NewIEEE()
	mw := io.MultiWriter(w, hash)

	if err := binary.Write(mw, Endianness, p.Type()); err != nil {
		return fmt.Errorf("failed to write packet type: %w", err)
	}

	switch p := p.(type) {
	case InitializePacket, SampleRequestPacket:
		// no payload
	case IndicatorPacket, DrivePacket, LightsPacket:
		if err := binary.Write(mw, Endianness, p); err != nil {
			return fmt.Errorf("failed to write packet: %w", err)
		}
	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	if err := binary.Write(w, Endianness, hash.Sum32()); err != nil {
		return fmt.Errorf("failed to write packet checksum: %w", err)
	}

	return nil
}

// ReadOutgoingPacket reads an outgoing packet from the given reader.
func ReadOutgoingPacket(r io.Reader) (OutgoingPacket, error) {
	hash := crc32.NewIEEE()
	tr := io.TeeReader(r, hash)

	ptype, err := readType(tr)
	if err != nil {
		return nil, fmt.Errorf("failed to read outgoing packet type: %w", err)
	}

	var packet OutgoingPacket
	switch ptype := OutgoingPacketType(ptype); ptype {
	case TypeAckPacket:
		var p AckPacket
		if err := binary.Read(tr, Endianness, &p); err != nil {
			return nil, fmt.Errorf("failed to read acked packet type: %w", err)
		}
		packet = p

	case TypeErrorPacket:
		msg, err := readMessage(tr)
		if err != nil {
			return nil, fmt.Errorf("failed to read error message: %w", err)
		}
		packet = ErrorPacket{Message: msg}

	case TypePanicPacket:
		packet = PanicPacket{}

	case TypeLogPacket:
		msg, err := readMessage(tr)
		if err != nil {
			return nil, fmt.Errorf("failed to read log message: %w", err)
		}
		packet = LogPacket{Message: msg}

	case TypeSamplePacket:
		var p SamplePacket
		if err := binary.Read(tr, Endianness, &p); err != nil {
			return nil, fmt.Errorf("failed to read sample: %w", err)
		}
		packet = p

	case TypeCollisionPacket:
		var p CollisionPacket
		if err := binary.Read(tr, Endianness, &p); err != nil {
			return nil, fmt.Errorf("failed to read collision state: %w", err)
		}
		packet = p

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPacketType, ptype)
	}

	if err := readChecksum(r, hash.Sum32()); err != nil {
		return nil, err
	}

	return packet, nil
}

// WriteOutgoingPacket writes an outgoing packet to the given writer.
func WriteOutgoingPacket(w io.Writer, p OutgoingPacket) error {
	hash := crc32.NewIEEE()
	mw := io.MultiWriter(w, hash)

	if err := binary.Write(mw, Endianness, p.Type()); err != nil {
		return fmt.Errorf("failed to write packet type: %w", err)
	}

	switch p := p.(type) {
	case PanicPacket:
		// no payload
	case AckPacket, SamplePacket, CollisionPacket:
		if err := binary.Write(mw, Endianness, p); err != nil {
			return fmt.Errorf("failed to write packet: %w", err)
		}
	case ErrorPacket:
		if err := writeMessage(mw, p.Message); err != nil {
			return fmt.Errorf("failed to write error message: %w", err)
		}
	case LogPacket:
		if err := writeMessage(mw, p.Message); err != nil {
			return fmt.Errorf("failed to write log message: %w", err)
		}
	default:
		return fmt.Errorf("unknown packet type: %T", p)
	}

	if err := binary.Write(w, Endianness, hash.Sum32()); err != nil {
		return fmt.Errorf("failed to write packet checksum: %w", err)
	}

	return nil
}

func readType(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// readChecksum reads the trailer from the raw reader so that it is not fed
// into the running hash.
func readChecksum(r io.Reader, want uint32) error {
	var checksum uint32
	if err := binary.Read(r, Endianness, &checksum); err != nil {
		return fmt.Errorf("failed to read packet checksum: %w", err)
	}
	if checksum != want {
		return ErrChecksumMismatch
	}
	return nil
}

func readMessage(r io.Reader) (string, error) {
	var length uint16
	if err := binary.Read(r, Endianness, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeMessage(w io.Writer, msg string) error {
	if len(msg) > 0xFFFF {
		msg = msg[:0xFFFF]
	}
	if err := binary.Write(w, Endianness, uint16(len(msg))); err != nil {
		return err
	}
	_, err := io.WriteString(w, msg)
	return err
}
