package ledger

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"skill-ledger/internal/domain/employee"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	methodAddSkill  = "addSkill"
	methodGetSkills = "getSkills"

	addSkillArity = 10
	tupleArity    = 9
)

// addSkillArgs lays out a skill in contract argument order and converts
// each value to the Go type the ABI encoder expects for that input.
func addSkillArgs(m abi.Method, empID int64, s employee.LedgerSkill) ([]interface{}, error) {
	raw := []interface{}{
		empID,
		s.SkillID,
		s.Track,
		s.TrackDetails,
		s.Proficiency,
		s.LevelOne,
		s.LevelTwo,
		s.LevelThree,
		s.LevelFour,
		s.LevelOthers,
	}
	if len(m.Inputs) != len(raw) {
		return nil, fmt.Errorf("%s expects %d inputs, abi declares %d", m.Name, len(raw), len(m.Inputs))
	}

	out := make([]interface{}, len(raw))
	for i, in := range m.Inputs {
		v, err := coerceArg(in.Type, raw[i])
		if err != nil {
			return nil, fmt.Errorf("%s arg %d (%s): %w", m.Name, i, in.Name, err)
		}
		out[i] = v
	}
	return out, nil
}

func coerceArg(t abi.Type, v interface{}) (interface{}, error) {
	switch t.T {
	case abi.StringTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("want string, got %T", v)
		}
		return s, nil
	case abi.BoolTy:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("want bool, got %T", v)
		}
		return b, nil
	case abi.UintTy, abi.IntTy:
		n, err := toBigInt(v)
		if err != nil {
			return nil, err
		}
		return sizedInt(t, n)
	default:
		return nil, fmt.Errorf("unsupported abi type %s", t.String())
	}
}

func sizedInt(t abi.Type, n *big.Int) (interface{}, error) {
	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, fmt.Errorf("value %s out of range for %s", n, t.String())
		}
		if t.Size > 64 {
			return n, nil
		}
		u := n.Uint64()
		switch t.Size {
		case 8:
			return uint8(u), nil
		case 16:
			return uint16(u), nil
		case 32:
			return uint32(u), nil
		case 64:
			return u, nil
		}
		return n, nil
	}

	if t.Size > 64 {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("value %s out of range for %s", n, t.String())
		}
		return n, nil
	}
	if !n.IsInt64() {
		return nil, fmt.Errorf("value %s out of range for %s", n, t.String())
	}
	i := n.Int64()
	lo, hi := int64(math.MinInt64), int64(math.MaxInt64)
	if t.Size < 64 {
		hi = int64(1)<<(t.Size-1) - 1
		lo = -hi - 1
	}
	if i < lo || i > hi {
		return nil, fmt.Errorf("value %d out of range for %s", i, t.String())
	}
	switch t.Size {
	case 8:
		return int8(i), nil
	case 16:
		return int16(i), nil
	case 32:
		return int32(i), nil
	case 64:
		return i, nil
	}
	return n, nil
}

func toBigInt(v interface{}) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, fmt.Errorf("nil big.Int")
		}
		return new(big.Int).Set(n), nil
	case big.Int:
		return new(big.Int).Set(&n), nil
	case int:
		return big.NewInt(int64(n)), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case string:
		b, ok := new(big.Int).SetString(strings.TrimSpace(n), 10)
		if !ok {
			return nil, fmt.Errorf("not an integer: %q", n)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("want integer, got %T", v)
	}
}

// decodeSkills turns the first return value of getSkills into ledger skills.
// The value is a slice of tuples, or a slice of slices when the contract
// returns a nested string array.
func decodeSkills(out []interface{}) ([]employee.LedgerSkill, error) {
	if len(out) == 0 || out[0] == nil {
		return []employee.LedgerSkill{}, nil
	}

	rv := reflect.ValueOf(out[0])
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("getSkills: want array, got %T", out[0])
	}

	skills := make([]employee.LedgerSkill, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		fields, err := tupleFields(rv.Index(i))
		if err != nil {
			return nil, fmt.Errorf("getSkills[%d]: %w", i, err)
		}
		s, err := skillFromFields(trimTuple(fields))
		if err != nil {
			return nil, fmt.Errorf("getSkills[%d]: %w", i, err)
		}
		skills = append(skills, s)
	}
	return skills, nil
}

func tupleFields(v reflect.Value) ([]interface{}, error) {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("nil tuple")
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		fields := make([]interface{}, v.NumField())
		for i := 0; i < v.NumField(); i++ {
			fields[i] = v.Field(i).Interface()
		}
		return fields, nil
	case reflect.Slice, reflect.Array:
		fields := make([]interface{}, v.Len())
		for i := 0; i < v.Len(); i++ {
			fields[i] = v.Index(i).Interface()
		}
		return fields, nil
	default:
		return nil, fmt.Errorf("want tuple, got %s", v.Kind())
	}
}

// trimTuple picks the nine skill fields out of a wider tuple. The skill
// layout starts with skillId followed by the track string, so an integer in
// the second slot means the contract put an extra field (the employee id) in
// front. Anything past the nine fields is dropped.
func trimTuple(fields []interface{}) []interface{} {
	if len(fields) <= tupleArity {
		return fields
	}
	if isInteger(fields[1]) {
		fields = fields[1:]
	}
	if len(fields) > tupleArity {
		fields = fields[:tupleArity]
	}
	return fields
}

func isInteger(v interface{}) bool {
	switch t := v.(type) {
	case string:
		_, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return err == nil
	case nil, bool:
		return false
	default:
		_, err := toBigInt(v)
		return err == nil
	}
}

func skillFromFields(f []interface{}) (employee.LedgerSkill, error) {
	if len(f) != tupleArity {
		return employee.LedgerSkill{}, fmt.Errorf("want %d fields, got %d", tupleArity, len(f))
	}

	skillID, err := toInt64(f[0])
	if err != nil {
		return employee.LedgerSkill{}, fmt.Errorf("skillId: %w", err)
	}
	prof, err := toInt64(f[3])
	if err != nil {
		return employee.LedgerSkill{}, fmt.Errorf("proficiency: %w", err)
	}

	return employee.LedgerSkill{
		SkillID:      skillID,
		Track:        toString(f[1]),
		TrackDetails: toString(f[2]),
		Proficiency:  prof,
		LevelOne:     toString(f[4]),
		LevelTwo:     toString(f[5]),
		LevelThree:   toString(f[6]),
		LevelFour:    toString(f[7]),
		LevelOthers:  toString(f[8]),
	}, nil
}

func toInt64(v interface{}) (int64, error) {
	if s, ok := v.(string); ok {
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	}
	n, err := toBigInt(v)
	if err != nil {
		return 0, err
	}
	if !n.IsInt64() {
		return 0, fmt.Errorf("value %s overflows int64", n)
	}
	return n.Int64(), nil
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
