package net

import (
	"encoding/binary"
	"errors"
	"fmt"

	"fenrir/internal/book"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrMessageTooShort    = errors.New("message too short for specified field lengths")
)

type MessageType int

const (
	Heartbeat MessageType = iota
	NewOrder
	CancelOrder
	LogBook
)

type ReportMessageType int

const (
	ExecutionReport ReportMessageType = iota
	ErrorReport
)

type Message interface {
	GetType() MessageType
}

// Message format constants.
const (
	BaseMessageHeaderLen = 2
	// NewOrder fixed header: side(1) + traits(1) + id(8) + hasAcct(1) +
	// acct(8) + sizeLen(1) + priceLen(1), variable-length size/price follow.
	NewOrderFixedHeaderLen = 1 + 1 + 8 + 1 + 8 + 1 + 1
	// CancelOrder fixed header: side(1) + id(8) + priceLen(1), variable-
	// length price follows.
	CancelOrderFixedHeaderLen = 1 + 8 + 1
)

// Generic message type.
type BaseMessage struct {
	TypeOf MessageType // 2 bytes
}

func (m BaseMessage) GetType() MessageType {
	return m.TypeOf
}

func parseMessage(msg []byte) (Message, error) {
	if len(msg) < BaseMessageHeaderLen {
		return BaseMessage{}, errors.New("message too short to contain header")
	}

	typeOf := MessageType(binary.BigEndian.Uint16(msg[0:2]))
	msg = msg[2:]
	switch typeOf {
	case NewOrder:
		return parseNewOrder(msg)
	case CancelOrder:
		return parseCancelOrder(msg)
	case LogBook:
		return BaseMessage{TypeOf: LogBook}, nil
	default:
		return BaseMessage{}, ErrInvalidMessageType
	}
}

// traitsByte packs the trait triple into a single byte: bit0=AllOrNone,
// bit1=ImmediateOrCancel, bit2=AllowCross.
func traitsByte(t book.OrderTraits) byte {
	var b byte
	if t.AllOrNone {
		b |= 1 << 0
	}
	if t.ImmediateOrCancel {
		b |= 1 << 1
	}
	if t.AllowCross {
		b |= 1 << 2
	}
	return b
}

func traitsFromByte(b byte) book.OrderTraits {
	return book.OrderTraits{
		AllOrNone:         b&(1<<0) != 0,
		ImmediateOrCancel: b&(1<<1) != 0,
		AllowCross:        b&(1<<2) != 0,
	}
}

type NewOrderMessage struct {
	BaseMessage
	Side   book.Side
	Traits book.OrderTraits
	ID     book.OrderID
	Acct   *book.AcctID
	Size   decimal.Decimal
	Price  decimal.Decimal
}

func parseNewOrder(msg []byte) (NewOrderMessage, error) {
	if len(msg) < NewOrderFixedHeaderLen {
		return NewOrderMessage{}, ErrMessageTooShort
	}
	m := NewOrderMessage{BaseMessage: BaseMessage{TypeOf: NewOrder}}
	m.Side = book.Side(msg[0])
	m.Traits = traitsFromByte(msg[1])
	m.ID = binary.BigEndian.Uint64(msg[2:10])

	hasAcct := msg[10] != 0
	acctVal := binary.BigEndian.Uint64(msg[11:19])
	if hasAcct {
		m.Acct = &acctVal
	}

	sizeLen := int(msg[19])
	priceLen := int(msg[20])
	rest := msg[21:]
	if len(rest) < sizeLen+priceLen {
		return NewOrderMessage{}, ErrMessageTooShort
	}

	size, err := decimal.NewFromString(string(rest[:sizeLen]))
	if err != nil {
		return NewOrderMessage{}, fmt.Errorf("invalid size in wire message: %w", err)
	}
	price, err := decimal.NewFromString(string(rest[sizeLen : sizeLen+priceLen]))
	if err != nil {
		return NewOrderMessage{}, fmt.Errorf("invalid price in wire message: %w", err)
	}
	m.Size = size
	m.Price = price

	return m, nil
}

// Serialize converts a NewOrderMessage to its wire form, used by the client.
func (m NewOrderMessage) Serialize() []byte {
	sizeStr := m.Size.String()
	priceStr := m.Price.String()

	buf := make([]byte, BaseMessageHeaderLen+NewOrderFixedHeaderLen+len(sizeStr)+len(priceStr))
	binary.BigEndian.PutUint16(buf[0:2], uint16(NewOrder))
	buf[2] = byte(m.Side)
	buf[3] = traitsByte(m.Traits)
	binary.BigEndian.PutUint64(buf[4:12], m.ID)

	if m.Acct != nil {
		buf[12] = 1
		binary.BigEndian.PutUint64(buf[13:21], *m.Acct)
	}
	buf[21] = byte(len(sizeStr))
	buf[22] = byte(len(priceStr))
	copy(buf[23:23+len(sizeStr)], sizeStr)
	copy(buf[23+len(sizeStr):], priceStr)
	return buf
}

type CancelOrderMessage struct {
	BaseMessage
	Side  book.Side
	ID    book.OrderID
	Price decimal.Decimal
}

func parseCancelOrder(msg []byte) (CancelOrderMessage, error) {
	if len(msg) < CancelOrderFixedHeaderLen {
		return CancelOrderMessage{}, ErrMessageTooShort
	}
	m := CancelOrderMessage{BaseMessage: BaseMessage{TypeOf: CancelOrder}}
	m.Side = book.Side(msg[0])
	m.ID = binary.BigEndian.Uint64(msg[1:9])

	priceLen := int(msg[9])
	rest := msg[10:]
	if len(rest) < priceLen {
		return CancelOrderMessage{}, ErrMessageTooShort
	}
	price, err := decimal.NewFromString(string(rest[:priceLen]))
	if err != nil {
		return CancelOrderMessage{}, fmt.Errorf("invalid price in wire message: %w", err)
	}
	m.Price = price
	return m, nil
}

// Serialize converts a CancelOrderMessage to its wire form, used by the
// client.
func (m CancelOrderMessage) Serialize() []byte {
	priceStr := m.Price.String()
	buf := make([]byte, BaseMessageHeaderLen+CancelOrderFixedHeaderLen+len(priceStr))
	binary.BigEndian.PutUint16(buf[0:2], uint16(CancelOrder))
	buf[2] = byte(m.Side)
	binary.BigEndian.PutUint64(buf[3:11], m.ID)
	buf[11] = byte(len(priceStr))
	copy(buf[12:], priceStr)
	return buf
}

// Report is the server's reply for one submit/cancel outcome: a fill or an
// error. Multiple reports may be sent per submitted order (one per fill);
// resting and successful cancels produce no report.
type Report struct {
	MessageType ReportMessageType
	OrderID     book.OrderID
	Side        book.Side
	Size        decimal.Decimal
	Price       decimal.Decimal
	ErrStr      string
}

const reportFixedHeaderLen = 1 + 1 + 8 + 1 + 1 + 4

// Serialize converts the report to be sent on the wire: type(1) + side(1) +
// orderID(8) + sizeLen(1) + priceLen(1) + errStrLen(4), then the variable
// fields.
func (r *Report) Serialize() []byte {
	sizeStr := r.Size.String()
	priceStr := r.Price.String()

	total := reportFixedHeaderLen + len(sizeStr) + len(priceStr) + len(r.ErrStr)
	buf := make([]byte, total)
	buf[0] = byte(r.MessageType)
	buf[1] = byte(r.Side)
	binary.BigEndian.PutUint64(buf[2:10], r.OrderID)
	buf[10] = byte(len(sizeStr))
	buf[11] = byte(len(priceStr))
	binary.BigEndian.PutUint32(buf[12:16], uint32(len(r.ErrStr)))

	offset := reportFixedHeaderLen
	copy(buf[offset:], sizeStr)
	offset += len(sizeStr)
	copy(buf[offset:], priceStr)
	offset += len(priceStr)
	copy(buf[offset:], r.ErrStr)

	return buf
}

// ParseReport decodes a Report from the wire, used by the client.
func ParseReport(buf []byte) (Report, error) {
	if len(buf) < reportFixedHeaderLen {
		return Report{}, ErrMessageTooShort
	}
	r := Report{
		MessageType: ReportMessageType(buf[0]),
		Side:        book.Side(buf[1]),
		OrderID:     binary.BigEndian.Uint64(buf[2:10]),
	}
	sizeLen := int(buf[10])
	priceLen := int(buf[11])
	errLen := int(binary.BigEndian.Uint32(buf[12:16]))

	rest := buf[reportFixedHeaderLen:]
	if len(rest) < sizeLen+priceLen+errLen {
		return Report{}, ErrMessageTooShort
	}

	size, err := decimal.NewFromString(string(rest[:sizeLen]))
	if err != nil {
		return Report{}, fmt.Errorf("invalid size in report: %w", err)
	}
	price, err := decimal.NewFromString(string(rest[sizeLen : sizeLen+priceLen]))
	if err != nil {
		return Report{}, fmt.Errorf("invalid price in report: %w", err)
	}
	r.Size = size
	r.Price = price
	r.ErrStr = string(rest[sizeLen+priceLen : sizeLen+priceLen+errLen])

	return r, nil
}
