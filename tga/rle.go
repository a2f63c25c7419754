package tga

// encodeRLE packetises a stream of palette indices into TGA subtype-9 RLE
// packets: each packet is a header byte (top bit selects run vs literal, low
// 7 bits hold count-1) followed by either one value (run) or count values
// (literal). Runs top out at 128 identical values, literals at 128 elements.
//
// The implementation tracks an explicit state (initial / literal-in-progress
// / run-in-progress) and promotes a literal's trailing duplicate into a new
// run packet, which the round-trip and packetisation tests exercise.
func encodeRLE(indices []uint8) []byte {
	if len(indices) == 0 {
		return nil
	}

	var out []byte
	const (
		stateNone = iota
		stateLiteral
		stateRun
	)
	state := stateNone
	headerIdx := 0 // index into out of the current packet's header byte

	for _, x := range indices {
		switch state {
		case stateNone:
			headerIdx = len(out)
			out = append(out, 0, x)
			state = stateLiteral

		case stateRun:
			count := int(out[headerIdx]&0x7F) + 1
			last := out[len(out)-1]
			if x == last && count < 128 {
				out[headerIdx]++
				continue
			}
			headerIdx = len(out)
			out = append(out, 0, x)
			state = stateLiteral

		case stateLiteral:
			count := int(out[headerIdx]&0x7F) + 1
			last := out[len(out)-1]
			canPromote := count >= 1 && x == last && count < 128
			if canPromote {
				// The pixel we're about to emit duplicates the one we just
				// wrote into this literal packet. Close the literal one
				// short (drop the duplicate we already appended) and open a
				// run of 2 starting at that value instead.
				out = out[:len(out)-1]
				if count == 1 {
					// The literal held only the duplicate itself; removing
					// it leaves an empty, headerless packet, so reuse its
					// header byte for the new run in place.
					out[headerIdx] = 0x80 | 1
					out = append(out, x)
					state = stateRun
					continue
				}
				out[headerIdx]--
				headerIdx = len(out)
				out = append(out, 0x80|1, x)
				state = stateRun
				continue
			}

			if count < 128 {
				out[headerIdx]++
				out = append(out, x)
				continue
			}

			headerIdx = len(out)
			out = append(out, 0, x)
			state = stateLiteral
		}
	}

	return out
}

// decodeRLE expands a TGA subtype-9 packet stream back into exactly total
// palette indices, or returns a TruncatedStreamError if the stream runs out
// first.
func decodeRLE(r byteReader, total int) ([]uint8, error) {
	out := make([]uint8, 0, total)

	for len(out) < total {
		head, err := r.ReadByte()
		if err != nil {
			return nil, &TruncatedStreamError{Reason: "RLE packet header", Err: err}
		}
		count := int(head&0x7F) + 1

		if head&0x80 != 0 {
			index, err := r.ReadByte()
			if err != nil {
				return nil, &TruncatedStreamError{Reason: "RLE run value", Err: err}
			}
			for i := 0; i < count; i++ {
				out = append(out, index)
			}
		} else {
			for i := 0; i < count; i++ {
				index, err := r.ReadByte()
				if err != nil {
					return nil, &TruncatedStreamError{Reason: "RLE literal value", Err: err}
				}
				out = append(out, index)
			}
		}
	}

	if len(out) != total {
		// A run packet can overshoot total by up to 127 indices in a
		// pathological stream; callers want exactly total.
		out = out[:total]
	}

	return out, nil
}

// byteReader is the minimal interface decodeRLE needs; io.ByteReader is
// satisfied by bufio.Reader and bytes.Reader.
type byteReader interface {
	ReadByte() (byte, error)
}
