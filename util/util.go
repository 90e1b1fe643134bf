package util

import (
	"bytes"
	"encoding/gob"
	"os"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"golang.org/x/exp/constraints"
)

func GetKeys[A constraints.Ordered, B any](m map[A]B) []A {
	keys := make([]A, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func Clamp[A constraints.Ordered](v A, lo A, hi A) A {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Min[A constraints.Integer](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Integer](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}

// FloorMod is a modulo whose result always has the sign of n.
func FloorMod[A constraints.Signed](a A, n A) A {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

func FloorDiv[A constraints.Signed](a A, n A) A {
	return (a - FloorMod(a, n)) / n
}

func EncodeBinary(data any) ([]byte, error) {
	buf := new(bytes.Buffer)
	encoder := gob.NewEncoder(buf)
	if err := encoder.Encode(data); err != nil {
		return nil, fault.Wrap(err, fmsg.With("could not gob encode"))
	}
	return buf.Bytes(), nil
}

func DecodeBinary[A any](b []byte) (A, error) {
	var data A
	decoder := gob.NewDecoder(bytes.NewReader(b))
	if err := decoder.Decode(&data); err != nil {
		return data, fault.Wrap(err, fmsg.With("could not gob decode"), ftag.With(ftag.InvalidArgument))
	}
	return data, nil
}

func CreateBinary(filename string, data any) error {
	b, err := EncodeBinary(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, b, 0666); err != nil {
		return fault.Wrap(err, fmsg.With("write failed for file: "+filename))
	}
	return nil
}

func ReadBinary[A any](path string) (A, error) {
	var data A
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return data, fault.Wrap(err, fmsg.With("no binary file at "+path), ftag.With(ftag.NotFound))
		}
		return data, fault.Wrap(err, fmsg.With("could not load binary file "+path))
	}
	return DecodeBinary[A](b)
}
