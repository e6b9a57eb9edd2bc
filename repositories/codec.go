package repositories

import (
	"fmt"
	"peer-chat/domain"
	"peer-chat/errors"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of a stored message. Never reuse a number.
const (
	fieldID        protowire.Number = 1
	fieldText      protowire.Number = 2
	fieldSender    protowire.Number = 3
	fieldSent      protowire.Number = 4
	fieldTimestamp protowire.Number = 5
)

func encodeMessage(message domain.ChatMessage) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldID, protowire.BytesType)
	b = protowire.AppendBytes(b, message.ID[:])
	b = protowire.AppendTag(b, fieldText, protowire.BytesType)
	b = protowire.AppendString(b, message.Text)
	b = protowire.AppendTag(b, fieldSender, protowire.BytesType)
	b = protowire.AppendString(b, message.Sender)
	b = protowire.AppendTag(b, fieldSent, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeBool(message.SentByLocalUser))
	b = protowire.AppendTag(b, fieldTimestamp, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(message.Timestamp.UnixNano()))
	return b
}

func decodeMessage(b []byte) (domain.ChatMessage, error) {
	var message domain.ChatMessage
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return domain.ChatMessage{}, protowire.ParseError(n)
		}
		b = b[n:]

		switch {
		case num == fieldID && typ == protowire.BytesType:
			raw, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return domain.ChatMessage{}, protowire.ParseError(n)
			}
			id, err := uuid.FromBytes(raw)
			if err != nil {
				return domain.ChatMessage{}, err
			}
			message.ID = id
			b = b[n:]
		case (num == fieldText || num == fieldSender) && typ == protowire.BytesType:
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return domain.ChatMessage{}, protowire.ParseError(n)
			}
			if num == fieldText {
				message.Text = s
			} else {
				message.Sender = s
			}
			b = b[n:]
		case (num == fieldSent || num == fieldTimestamp) && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return domain.ChatMessage{}, protowire.ParseError(n)
			}
			if num == fieldSent {
				message.SentByLocalUser = protowire.DecodeBool(v)
			} else {
				message.Timestamp = time.Unix(0, protowire.DecodeZigZag(v))
			}
			b = b[n:]
		default:
			return domain.ChatMessage{}, fmt.Errorf("%w: %d", errors.ErrUnknownField, num)
		}
	}
	return message, nil
}
