package classfile

import "encoding/binary"

// parseAttributeList reads the 2-byte attributes_count followed by that
// many attribute_info structures, returning the decoded attributes plus
// the sum of every Code attribute's declared length found in this list
// (spec.md §4.1's aggregate CodeSize rule applies at every nesting level:
// fields, methods, and the class itself).
func parseAttributeList(br *byteReader, pool []ConstantPoolEntry, path string) ([]Attribute, int64, error) {
	count := br.u2()
	if br.err != nil {
		return nil, 0, br.err
	}

	attrs := make([]Attribute, 0, count)
	var codeSize int64
	for i := 0; i < int(count); i++ {
		attr, isCode, length, err := parseAttribute(br, pool, path)
		if err != nil {
			return nil, 0, err
		}
		if isCode {
			codeSize += int64(length)
		}
		attrs = append(attrs, attr)
	}
	return attrs, codeSize, nil
}

// parseAttribute reads one attribute_info: a 2-byte name index, a 4-byte
// length, and exactly `length` bytes of content — consumed in full
// regardless of whether the attribute name is recognized, per spec.md
// §4.1. A recognized attribute whose content does not match the shape its
// name implies is a fatal CorruptAttribute.
func parseAttribute(br *byteReader, pool []ConstantPoolEntry, path string) (attr Attribute, isCode bool, length uint32, err error) {
	nameIdx := br.u2()
	length = br.u4()
	if br.err != nil {
		return Attribute{}, false, 0, br.err
	}

	name, err := utf8At(pool, nameIdx, path)
	if err != nil {
		return Attribute{}, false, 0, err
	}

	buf := br.bytes(int(length))
	if br.err != nil {
		return Attribute{}, false, 0, br.err
	}

	switch name {
	case "SourceFile":
		if len(buf) != 2 {
			return Attribute{}, false, 0, corruptAttributeError(path)
		}
		idx := binary.BigEndian.Uint16(buf)
		s, err := utf8At(pool, idx, path)
		if err != nil {
			return Attribute{}, false, 0, err
		}
		return Attribute{Name: name, Value: s}, false, 0, nil

	case "Deprecated":
		return Attribute{Name: name, Value: true}, false, 0, nil

	case "Code":
		return Attribute{Name: name, Value: Code{Length: length}}, true, length, nil

	case "Signature":
		if len(buf) != 2 {
			return Attribute{}, false, 0, corruptAttributeError(path)
		}
		idx := binary.BigEndian.Uint16(buf)
		s, err := utf8At(pool, idx, path)
		if err != nil {
			return Attribute{}, false, 0, err
		}
		return Attribute{Name: name, Value: s}, false, 0, nil

	case "Exceptions":
		if len(buf) < 2 {
			return Attribute{}, false, 0, corruptAttributeError(path)
		}
		count := binary.BigEndian.Uint16(buf[0:2])
		if len(buf) != 2+int(count)*2 {
			return Attribute{}, false, 0, corruptAttributeError(path)
		}
		names := make([]string, 0, count)
		for i := 0; i < int(count); i++ {
			idx := binary.BigEndian.Uint16(buf[2+i*2 : 4+i*2])
			cn, err := classNameAt(pool, idx, path)
			if err != nil {
				return Attribute{}, false, 0, err
			}
			names = append(names, cn)
		}
		return Attribute{Name: name, Value: names}, false, 0, nil

	default:
		return Attribute{Name: name, Value: nil}, false, 0, nil
	}
}
