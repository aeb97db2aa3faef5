package evmrpc

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/sha3"
)

const wordSize = 32

var (
	maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	twoTo256   = new(big.Int).Lsh(big.NewInt(1), 256)
)

// Selector returns the first 4 bytes of the keccak-256 hash of the canonical
// method signature.
func Selector(signature string) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signature))
	return h.Sum(nil)[:4]
}

// EncodeCall returns the calldata for the given method signature and args.
// Supported types are address, bool, bytes32, (u)intN and dynamic arrays of
// those.
func EncodeCall(signature string, args ...interface{}) ([]byte, error) {
	types, err := parseSignature(signature)
	if err != nil {
		return nil, err
	}
	if len(types) != len(args) {
		return nil, fmt.Errorf(
			"%s expects %d args, got %d", signature, len(types), len(args),
		)
	}

	head := make([]byte, 0, len(types)*wordSize)
	tail := make([]byte, 0)
	for i, typ := range types {
		if elemType, ok := arrayElemType(typ); ok {
			offset := big.NewInt(int64(len(types)*wordSize + len(tail)))
			head = append(head, padWord(offset.Bytes())...)

			enc, err := encodeArray(elemType, args[i])
			if err != nil {
				return nil, fmt.Errorf("arg %d: %w", i, err)
			}
			tail = append(tail, enc...)
			continue
		}

		word, err := encodeStatic(typ, args[i])
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}
		head = append(head, word...)
	}

	data := append([]byte{}, Selector(signature)...)
	data = append(data, head...)
	return append(data, tail...), nil
}

// DecodeWords splits a hex encoded call result into 32-byte unsigned words.
func DecodeWords(result string) ([]*big.Int, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(result, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid hex result: %w", err)
	}
	if len(raw)%wordSize != 0 {
		return nil, fmt.Errorf("result length %d is not a multiple of %d", len(raw), wordSize)
	}

	words := make([]*big.Int, 0, len(raw)/wordSize)
	for i := 0; i < len(raw); i += wordSize {
		words = append(words, new(big.Int).SetBytes(raw[i:i+wordSize]))
	}
	return words, nil
}

func parseSignature(signature string) ([]string, error) {
	open := strings.Index(signature, "(")
	if open <= 0 || !strings.HasSuffix(signature, ")") {
		return nil, fmt.Errorf("malformed signature %q", signature)
	}
	params := strings.TrimSpace(signature[open+1 : len(signature)-1])
	if params == "" {
		return nil, nil
	}
	if strings.ContainsAny(params, "() ") {
		return nil, fmt.Errorf("unsupported signature %q", signature)
	}
	return strings.Split(params, ","), nil
}

func arrayElemType(typ string) (string, bool) {
	if strings.HasSuffix(typ, "[]") {
		return strings.TrimSuffix(typ, "[]"), true
	}
	return "", false
}

func encodeArray(elemType string, arg interface{}) ([]byte, error) {
	var elems []interface{}
	switch v := arg.(type) {
	case []interface{}:
		elems = v
	case []string:
		for _, s := range v {
			elems = append(elems, s)
		}
	case []*big.Int:
		for _, i := range v {
			elems = append(elems, i)
		}
	case []uint64:
		for _, i := range v {
			elems = append(elems, i)
		}
	case []bool:
		for _, b := range v {
			elems = append(elems, b)
		}
	default:
		return nil, fmt.Errorf("unsupported value %T for %s[]", arg, elemType)
	}

	enc := padWord(big.NewInt(int64(len(elems))).Bytes())
	for i, e := range elems {
		word, err := encodeStatic(elemType, e)
		if err != nil {
			return nil, fmt.Errorf("elem %d: %w", i, err)
		}
		enc = append(enc, word...)
	}
	return enc, nil
}

func encodeStatic(typ string, arg interface{}) ([]byte, error) {
	switch {
	case typ == "address":
		s, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("unsupported value %T for address", arg)
		}
		raw, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(s), "0x"))
		if err != nil || len(raw) != 20 {
			return nil, fmt.Errorf("invalid address %q", s)
		}
		return padWord(raw), nil

	case typ == "bool":
		b, ok := arg.(bool)
		if !ok {
			return nil, fmt.Errorf("unsupported value %T for bool", arg)
		}
		if b {
			return padWord([]byte{1}), nil
		}
		return padWord(nil), nil

	case typ == "bytes32":
		var raw []byte
		switch v := arg.(type) {
		case [32]byte:
			raw = v[:]
		case []byte:
			raw = v
		case string:
			decoded, err := hex.DecodeString(strings.TrimPrefix(v, "0x"))
			if err != nil {
				return nil, fmt.Errorf("invalid bytes32 %q", v)
			}
			raw = decoded
		default:
			return nil, fmt.Errorf("unsupported value %T for bytes32", arg)
		}
		if len(raw) != wordSize {
			return nil, fmt.Errorf("bytes32 must be 32 bytes long, got %d", len(raw))
		}
		return append([]byte{}, raw...), nil

	case strings.HasPrefix(typ, "uint"), strings.HasPrefix(typ, "int"):
		return encodeInt(typ, arg)
	}
	return nil, fmt.Errorf("unsupported type %s", typ)
}

func encodeInt(typ string, arg interface{}) ([]byte, error) {
	signed := strings.HasPrefix(typ, "int")
	bits := 256
	if size := strings.TrimPrefix(strings.TrimPrefix(typ, "u"), "int"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil || n <= 0 || n > 256 || n%8 != 0 {
			return nil, fmt.Errorf("unsupported type %s", typ)
		}
		bits = n
	}

	var v *big.Int
	switch a := arg.(type) {
	case *big.Int:
		if a == nil {
			return nil, fmt.Errorf("nil value for %s", typ)
		}
		v = a
	case int:
		v = big.NewInt(int64(a))
	case int64:
		v = big.NewInt(a)
	case uint64:
		v = new(big.Int).SetUint64(a)
	case string:
		parsed, ok := new(big.Int).SetString(a, 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", a)
		}
		v = parsed
	default:
		return nil, fmt.Errorf("unsupported value %T for %s", arg, typ)
	}

	if signed {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
		if v.Cmp(limit) >= 0 || v.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("%s overflows %s", v, typ)
		}
		if v.Sign() < 0 {
			// two's complement
			v = new(big.Int).Add(twoTo256, v)
		}
		return padWord(v.Bytes()), nil
	}

	if v.Sign() < 0 || v.BitLen() > bits || v.Cmp(maxUint256) > 0 {
		return nil, fmt.Errorf("%s overflows %s", v, typ)
	}
	return padWord(v.Bytes()), nil
}

func padWord(b []byte) []byte {
	word := make([]byte, wordSize)
	copy(word[wordSize-len(b):], b)
	return word
}
