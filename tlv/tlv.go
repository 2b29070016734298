package tlv

// --------------------------------------------------------------------------
//
//	Gurux Ltd
//
// Filename:        $HeadURL$
//
// Version:         $Revision$,
//
//	$Date$
//	$Author$
//
// # Copyright (c) Gurux Ltd
//
// ---------------------------------------------------------------------------
//
//	DESCRIPTION
//
// This file is a part of Gurux Device Framework.
//
// Gurux Device Framework is Open Source software; you can redistribute it
// and/or modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2 of the License.
// Gurux Device Framework is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU General Public License for more details.
//
// More information of Gurux products: https://www.gurux.org
//
// This code is licensed under the GNU General Public License v2.
// Full text may be retrieved at http://www.gnu.org/licenses/gpl-2.0.txt
// ---------------------------------------------------------------------------

import (
	"encoding/binary"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/Gurux/gxuwb-go/status"
)

// MaxValueLen is the largest value the one byte length field can carry.
const MaxValueLen = 0xFF

// Decode and Encode errors.
var (
	// ErrShortTag is returned when an entry ends inside its tag or length.
	ErrShortTag = errors.New("tlv: short tag")
	// ErrShortLength is returned when an extended tag has no length byte.
	ErrShortLength = errors.New("tlv: missing length of extended tag")
	// ErrShortValue is returned when a length runs past the buffer.
	ErrShortValue = errors.New("tlv: value exceeds buffer")
	// ErrValueTooLong is returned by Encode for values over MaxValueLen.
	ErrValueTooLong = errors.New("tlv: value too long")
)

// Decode parses TLV bytes into a tag to value map.
//
// A first tag byte listed in ext starts a two byte big endian tag followed
// by a length byte. Any other first byte is a one byte tag followed by its
// length. Decoding stops at the first truncated entry; the entries decoded
// so far are returned together with an error wrapping
// status.ErrMalformedFrame. Later duplicates overwrite earlier ones.
func Decode(ext []byte, b []byte) (map[uint16][]byte, error) {
	ret := make(map[uint16][]byte)
	i := 0
	for i < len(b) {
		if len(b)-i < 2 {
			return ret, malformed(ErrShortTag, i)
		}
		b0, b1 := b[i], b[i+1]
		i += 2
		var tag uint16
		var l int
		if slices.Contains(ext, b0) {
			if i >= len(b) {
				return ret, malformed(ErrShortLength, i)
			}
			tag = uint16(b0)<<8 | uint16(b1)
			l = int(b[i])
			i++
		} else {
			tag = uint16(b0)
			l = int(b1)
		}
		if len(b)-i < l {
			return ret, malformed(ErrShortValue, i)
		}
		ret[tag] = slices.Clone(b[i : i+l])
		i += l
	}
	return ret, nil
}

func malformed(err error, offset int) error {
	return fmt.Errorf("%w at offset %d: %w", err, offset, status.ErrMalformedFrame)
}

// Encode writes the map in ascending tag order. Tags above 0xFF are written
// as two big endian bytes, smaller tags as one byte.
func Encode(m map[uint16][]byte) ([]byte, error) {
	out := make([]byte, 0)
	for _, tag := range slices.Sorted(maps.Keys(m)) {
		val := m[tag]
		if len(val) > MaxValueLen {
			return nil, fmt.Errorf("%w: tag 0x%X has %d bytes", ErrValueTooLong, tag, len(val))
		}
		if tag > 0xFF {
			out = binary.BigEndian.AppendUint16(out, tag)
		} else {
			out = append(out, byte(tag))
		}
		out = append(out, byte(len(val)))
		out = append(out, val...)
	}
	return out, nil
}
