package classfile

import "github.com/standardbeagle/classgraph/internal/cgerrors"

func unknownTagError(path string, tag byte) error {
	return cgerrors.UnknownConstantTag(path, tag)
}

func indexOutOfRangeError(path string, idx int) error {
	return cgerrors.IndexOutOfRange(path, idx)
}

func corruptAttributeError(path string) error {
	return cgerrors.NewArtifactError(path, cgerrors.ErrCorruptAttribute)
}

func invalidMagicError(path string) error {
	return cgerrors.NewArtifactError(path, cgerrors.ErrInvalidMagic)
}
