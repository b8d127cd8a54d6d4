package pack

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register the pack tag so sentinel scans include it.
	sentinel.Tag("pack")
}

// MarshalOptions control how native Go values map onto the wire.
type MarshalOptions struct {
	// Canonical orders map entries by encoded key bytes. See EncodeOptions.
	Canonical bool

	// ForceMap encodes every keyed record with the map families. When
	// false, a Go map whose keys are exactly the integers 0..n-1 (or
	// their canonical decimal strings) is encoded as an array instead,
	// trading explicit keys for a smaller wire size. Records with any
	// other key shape always encode as maps.
	ForceMap bool

	// TimeAsExt encodes time.Time as the reserved timestamp extension.
	// When false a time encodes as a Float of epoch milliseconds.
	TimeAsExt bool

	// BigIntAsExt encodes *big.Int as the reserved big-integer
	// extension. When false, values outside the 64-bit range fail with
	// ErrIntRange instead of being truncated.
	BigIntAsExt bool

	// MaxDepth bounds nesting during the walk. Zero means the default.
	MaxDepth int
}

// DefaultMarshalOptions returns the extension-friendly defaults.
func DefaultMarshalOptions() MarshalOptions {
	return MarshalOptions{
		ForceMap:    true,
		TimeAsExt:   true,
		BigIntAsExt: true,
		MaxDepth:    DefaultMaxDepth,
	}
}

// Marshal encodes a native Go value with the default options.
func Marshal(v any) ([]byte, error) {
	return DefaultMarshalOptions().Marshal(v)
}

// Marshal converts v to the Value model and encodes it.
func (o MarshalOptions) Marshal(v any) ([]byte, error) {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	val, err := o.FromGo(v)
	if err != nil {
		return nil, err
	}
	return EncodeOptions{Canonical: o.Canonical, MaxDepth: o.MaxDepth}.Encode(val)
}

// FromGo converts a native Go value to the Value model. Functions,
// channels, complex numbers and unsafe pointers have no representation
// and fail with ErrUnsupported.
func (o MarshalOptions) FromGo(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Nil{}, nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(t), nil
	case int8:
		return Int(t), nil
	case int16:
		return Int(t), nil
	case int32:
		return Int(t), nil
	case int64:
		return Int(t), nil
	case uint:
		return UintValue(uint64(t)), nil
	case uint8:
		return Int(t), nil
	case uint16:
		return Int(t), nil
	case uint32:
		return Int(t), nil
	case uint64:
		return UintValue(t), nil
	case float32:
		return Float(t), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case []byte:
		return Binary(t), nil
	case time.Time:
		if o.TimeAsExt {
			return TimeToExt(t), nil
		}
		return Float(t.UnixMilli()), nil
	case *big.Int:
		return o.bigIntValue(t)
	case big.Int:
		return o.bigIntValue(&t)
	}
	return o.fromReflect(reflect.ValueOf(v))
}

func (o MarshalOptions) bigIntValue(n *big.Int) (Value, error) {
	if n == nil {
		return Nil{}, nil
	}
	if n.IsInt64() {
		return Int(n.Int64()), nil
	}
	if n.IsUint64() {
		return UintValue(n.Uint64()), nil
	}
	if !o.BigIntAsExt {
		return nil, encodeErr(ErrIntRange, n.String())
	}
	return BigIntToExt(n), nil
}

func (o MarshalOptions) fromReflect(rv reflect.Value) (Value, error) {
	if !rv.IsValid() {
		return Nil{}, nil
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Nil{}, nil
		}
		return o.FromGo(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return UintValue(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make(Binary, rv.Len())
			reflect.Copy(reflect.ValueOf([]byte(b)), rv)
			return b, nil
		}
		arr := make(Array, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := o.fromReflect(rv.Index(i))
			if err != nil {
				return nil, err
			}
			arr[i] = item
		}
		return arr, nil
	case reflect.Map:
		return o.fromGoMap(rv)
	case reflect.Struct:
		return o.fromGoStruct(rv)
	}
	return nil, encodeErr(ErrUnsupported, rv.Kind().String())
}

// fromGoMap converts a Go map. Iteration order is unspecified, so
// entries are sorted by key text to keep output deterministic even
// without the canonical option.
func (o MarshalOptions) fromGoMap(rv reflect.Value) (Value, error) {
	type kv struct {
		text  string
		index int // 0..n-1 position when the key is a canonical index
		key   Value
		val   Value
	}
	entries := make([]kv, 0, rv.Len())
	indexed := !o.ForceMap

	iter := rv.MapRange()
	for iter.Next() {
		k, err := o.fromReflect(iter.Key())
		if err != nil {
			return nil, err
		}
		v, err := o.fromReflect(iter.Value())
		if err != nil {
			return nil, err
		}
		e := kv{key: k, val: v, index: -1}
		switch kt := k.(type) {
		case String:
			e.text = string(kt)
			if i, err := strconv.Atoi(e.text); err == nil && i >= 0 && strconv.Itoa(i) == e.text {
				e.index = i
			}
		case Int:
			e.text = strconv.FormatInt(int64(kt), 10)
			if kt >= 0 && int64(kt) < int64(rv.Len()) {
				e.index = int(kt)
			}
		case Uint:
			e.text = strconv.FormatUint(uint64(kt), 10)
		case Bool:
			e.text = strconv.FormatBool(bool(kt))
		case Float:
			e.text = strconv.FormatFloat(float64(kt), 'g', -1, 64)
		default:
			e.text = fmt.Sprintf("%v", kt)
		}
		if e.index < 0 || e.index >= rv.Len() {
			indexed = false
		}
		entries = append(entries, e)
	}

	if indexed {
		// Keys might still collide (say {0, 0} can't happen in a Go map,
		// but {"0", 0} can via interface keys); verify the permutation.
		arr := make(Array, len(entries))
		seen := make([]bool, len(entries))
		ok := true
		for _, e := range entries {
			if seen[e.index] {
				ok = false
				break
			}
			seen[e.index] = true
			arr[e.index] = e.val
		}
		if ok {
			return arr, nil
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].text < entries[j].text })
	m := make(Map, len(entries))
	for i, e := range entries {
		m[i] = MapEntry{Key: e.key, Value: e.val}
	}
	return m, nil
}

func (o MarshalOptions) fromGoStruct(rv reflect.Value) (Value, error) {
	fields := structInfo(rv.Type())
	m := make(Map, 0, len(fields))
	for _, f := range fields {
		fv, err := o.fromReflect(rv.FieldByIndex(f.index))
		if err != nil {
			return nil, err
		}
		m = append(m, MapEntry{Key: String(f.name), Value: fv})
	}
	return m, nil
}

// fieldInfo is one encodable struct field.
type fieldInfo struct {
	name  string
	index []int
}

var structFields sync.Map // reflect.Type -> []fieldInfo

func structInfo(rt reflect.Type) []fieldInfo {
	if cached, ok := structFields.Load(rt); ok {
		return cached.([]fieldInfo)
	}
	fields := scanStructType(rt)
	structFields.Store(rt, fields)
	return fields
}

// scanStructType reads field names from sentinel metadata when the
// type has been scanned, falling back to a direct reflect walk.
// Fields rename via `pack:"name"` and opt out via `pack:"-"`.
func scanStructType(rt reflect.Type) []fieldInfo {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		fields := make([]fieldInfo, 0, len(spec.Fields))
		for _, f := range spec.Fields {
			name := f.Name
			if tag, ok := f.Tags["pack"]; ok {
				if tag == "-" {
					continue
				}
				if tag != "" {
					name = tag
				}
			}
			fields = append(fields, fieldInfo{name: name, index: f.Index})
		}
		return fields
	}

	fields := make([]fieldInfo, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("pack"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		fields = append(fields, fieldInfo{name: name, index: sf.Index})
	}
	return fields
}

// UnmarshalOptions control decoding and the host mapping applied on
// top of it.
type UnmarshalOptions struct {
	// Decode carries the wire-level resource limits.
	Decode DecodeOptions

	// RawExt disables the default adapter, leaving every extension as
	// an opaque Ext value instead of promoting the reserved timestamp
	// and big-integer codes.
	RawExt bool
}

// DefaultUnmarshalOptions promotes reserved extensions under the
// default decode limits.
func DefaultUnmarshalOptions() UnmarshalOptions {
	return UnmarshalOptions{Decode: DefaultDecodeOptions()}
}

// Unmarshal decodes data into v with the default options. v must be a
// non-nil pointer; *any, maps, slices, structs with pack tags,
// time.Time and *big.Int targets are supported.
func Unmarshal(data []byte, v any) error {
	return DefaultUnmarshalOptions().Unmarshal(data, v)
}

// Unmarshal decodes data into v under the receiver's options.
func (o UnmarshalOptions) Unmarshal(data []byte, v any) error {
	val, err := o.Decode.Decode(data)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("pack: unmarshal target must be a non-nil pointer, got %T", v)
	}
	return o.assign(rv.Elem(), val)
}

// ToGo converts a decoded Value to untyped Go values: nil, bool, int64,
// uint64, float64, string, []byte, []any and map[string]any. Map keys
// must be text-coercible scalars; a container or extension key fails
// with ErrMapKey. Reserved extensions promote unless RawExt is set.
func (o UnmarshalOptions) ToGo(v Value) (any, error) {
	switch t := v.(type) {
	case nil, Nil:
		return nil, nil
	case Bool:
		return bool(t), nil
	case Int:
		return int64(t), nil
	case Uint:
		return uint64(t), nil
	case Float:
		return float64(t), nil
	case String:
		return string(t), nil
	case Binary:
		return []byte(t), nil
	case Array:
		out := make([]any, len(t))
		for i, item := range t {
			x, err := o.ToGo(item)
			if err != nil {
				return nil, err
			}
			out[i] = x
		}
		return out, nil
	case Map:
		out := make(map[string]any, len(t))
		for _, e := range t {
			key, err := propertyKey(e.Key)
			if err != nil {
				return nil, err
			}
			x, err := o.ToGo(e.Value)
			if err != nil {
				return nil, err
			}
			out[key] = x
		}
		return out, nil
	case Ext:
		if !o.RawExt {
			if promoted, ok := PromoteExt(t); ok {
				return promoted, nil
			}
		}
		return t, nil
	}
	return nil, encodeErr(ErrUnsupported, fmt.Sprintf("%T", v))
}

// propertyKey coerces a map key to host property-key text.
func propertyKey(k Value) (string, error) {
	switch t := k.(type) {
	case String:
		return string(t), nil
	case Int:
		return strconv.FormatInt(int64(t), 10), nil
	case Uint:
		return strconv.FormatUint(uint64(t), 10), nil
	case Float:
		return strconv.FormatFloat(float64(t), 'g', -1, 64), nil
	case Bool:
		return strconv.FormatBool(bool(t)), nil
	case Binary:
		return string(t), nil
	}
	return "", fmt.Errorf("pack: %w: %T", ErrMapKey, k)
}

var (
	timeType   = reflect.TypeOf(time.Time{})
	bigIntType = reflect.TypeOf(big.Int{})
	extType    = reflect.TypeOf(Ext{})
)

// assign writes a decoded Value into an addressable destination.
func (o UnmarshalOptions) assign(dst reflect.Value, v Value) error {
	// Untyped interface targets take the generic conversion.
	if dst.Kind() == reflect.Interface && dst.NumMethod() == 0 {
		x, err := o.ToGo(v)
		if err != nil {
			return err
		}
		if x == nil {
			dst.Set(reflect.Zero(dst.Type()))
		} else {
			dst.Set(reflect.ValueOf(x))
		}
		return nil
	}

	if _, ok := v.(Nil); ok || v == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}

	if dst.Kind() == reflect.Pointer {
		if dst.Type().Elem() == bigIntType {
			return o.assignBigInt(dst, v)
		}
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return o.assign(dst.Elem(), v)
	}

	switch dst.Type() {
	case timeType:
		return assignTime(dst, v)
	case extType:
		if e, ok := v.(Ext); ok {
			dst.Set(reflect.ValueOf(e))
			return nil
		}
	case bigIntType:
		return o.assignBigInt(dst, v)
	}

	switch t := v.(type) {
	case Bool:
		if dst.Kind() == reflect.Bool {
			dst.SetBool(bool(t))
			return nil
		}
	case Int:
		return assignInt(dst, int64(t))
	case Uint:
		return assignUint(dst, uint64(t))
	case Float:
		if dst.Kind() == reflect.Float32 || dst.Kind() == reflect.Float64 {
			dst.SetFloat(float64(t))
			return nil
		}
	case String:
		switch {
		case dst.Kind() == reflect.String:
			dst.SetString(string(t))
			return nil
		case dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() == reflect.Uint8:
			dst.SetBytes([]byte(t))
			return nil
		}
	case Binary:
		switch {
		case dst.Kind() == reflect.Slice && dst.Type().Elem().Kind() == reflect.Uint8:
			dst.SetBytes(append([]byte(nil), t...))
			return nil
		case dst.Kind() == reflect.String:
			dst.SetString(string(t))
			return nil
		}
	case Array:
		return o.assignArray(dst, t)
	case Map:
		return o.assignMap(dst, t)
	}
	return fmt.Errorf("pack: cannot unmarshal %T into %s", v, dst.Type())
}

func assignTime(dst reflect.Value, v Value) error {
	switch t := v.(type) {
	case Ext:
		tm, err := TimeFromExt(t)
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(tm))
		return nil
	case Float:
		// Epoch milliseconds, the non-extension date form.
		dst.Set(reflect.ValueOf(time.UnixMilli(int64(t)).UTC()))
		return nil
	case Int:
		dst.Set(reflect.ValueOf(time.UnixMilli(int64(t)).UTC()))
		return nil
	}
	return fmt.Errorf("pack: cannot unmarshal %T into time.Time", v)
}

func (o UnmarshalOptions) assignBigInt(dst reflect.Value, v Value) error {
	var n *big.Int
	switch t := v.(type) {
	case Ext:
		decoded, err := BigIntFromExt(t)
		if err != nil {
			return err
		}
		n = decoded
	case Int:
		n = big.NewInt(int64(t))
	case Uint:
		n = new(big.Int).SetUint64(uint64(t))
	default:
		return fmt.Errorf("pack: cannot unmarshal %T into big.Int", v)
	}
	if dst.Kind() == reflect.Pointer {
		dst.Set(reflect.ValueOf(n))
		return nil
	}
	dst.Set(reflect.ValueOf(*n))
	return nil
}

func assignInt(dst reflect.Value, n int64) error {
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if dst.OverflowInt(n) {
			return fmt.Errorf("pack: %w: %d into %s", ErrIntRange, n, dst.Type())
		}
		dst.SetInt(n)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n < 0 || dst.OverflowUint(uint64(n)) {
			return fmt.Errorf("pack: %w: %d into %s", ErrIntRange, n, dst.Type())
		}
		dst.SetUint(uint64(n))
		return nil
	case reflect.Float32, reflect.Float64:
		dst.SetFloat(float64(n))
		return nil
	}
	return fmt.Errorf("pack: cannot unmarshal integer into %s", dst.Type())
}

func assignUint(dst reflect.Value, n uint64) error {
	switch dst.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if dst.OverflowUint(n) {
			return fmt.Errorf("pack: %w: %d into %s", ErrIntRange, n, dst.Type())
		}
		dst.SetUint(n)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n > math.MaxInt64 || dst.OverflowInt(int64(n)) {
			return fmt.Errorf("pack: %w: %d into %s", ErrIntRange, n, dst.Type())
		}
		dst.SetInt(int64(n))
		return nil
	case reflect.Float32, reflect.Float64:
		dst.SetFloat(float64(n))
		return nil
	}
	return fmt.Errorf("pack: cannot unmarshal integer into %s", dst.Type())
}

func (o UnmarshalOptions) assignArray(dst reflect.Value, arr Array) error {
	switch dst.Kind() {
	case reflect.Slice:
		out := reflect.MakeSlice(dst.Type(), len(arr), len(arr))
		for i, item := range arr {
			if err := o.assign(out.Index(i), item); err != nil {
				return err
			}
		}
		dst.Set(out)
		return nil
	case reflect.Array:
		if dst.Len() < len(arr) {
			return fmt.Errorf("pack: array of %d into %s", len(arr), dst.Type())
		}
		for i, item := range arr {
			if err := o.assign(dst.Index(i), item); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("pack: cannot unmarshal array into %s", dst.Type())
}

func (o UnmarshalOptions) assignMap(dst reflect.Value, m Map) error {
	switch dst.Kind() {
	case reflect.Map:
		if dst.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("pack: cannot unmarshal map into %s", dst.Type())
		}
		out := reflect.MakeMapWithSize(dst.Type(), len(m))
		for _, e := range m {
			key, err := propertyKey(e.Key)
			if err != nil {
				return err
			}
			val := reflect.New(dst.Type().Elem()).Elem()
			if err := o.assign(val, e.Value); err != nil {
				return err
			}
			out.SetMapIndex(reflect.ValueOf(key).Convert(dst.Type().Key()), val)
		}
		dst.Set(out)
		return nil
	case reflect.Struct:
		fields := structInfo(dst.Type())
		byName := make(map[string][]int, len(fields))
		for _, f := range fields {
			byName[f.name] = f.index
		}
		for _, e := range m {
			key, err := propertyKey(e.Key)
			if err != nil {
				return err
			}
			index, ok := byName[key]
			if !ok {
				continue // unknown fields are skipped, not errors
			}
			if err := o.assign(dst.FieldByIndex(index), e.Value); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("pack: cannot unmarshal map into %s", dst.Type())
}
