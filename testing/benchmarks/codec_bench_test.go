package benchmarks

import (
	"context"
	"testing"

	"github.com/moltdata/molt"
	"github.com/moltdata/molt/formats"
	"github.com/moltdata/molt/json"
	"github.com/moltdata/molt/pack"
	molttest "github.com/moltdata/molt/testing"
	"github.com/moltdata/molt/yaml"
)

func benchmarkMarshal(b *testing.B, c molt.Codec) {
	user := molttest.NewSampleUser()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Marshal(user)
	}
}

func benchmarkUnmarshal(b *testing.B, c molt.Codec) {
	data, err := c.Marshal(molttest.NewSampleUser())
	if err != nil {
		b.Fatalf("Marshal() error: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var u molttest.SampleUser
		_ = c.Unmarshal(data, &u)
	}
}

func BenchmarkMarshal_JSON(b *testing.B) {
	benchmarkMarshal(b, json.New())
}

func BenchmarkMarshal_YAML(b *testing.B) {
	benchmarkMarshal(b, yaml.New())
}

func BenchmarkMarshal_Pack(b *testing.B) {
	benchmarkMarshal(b, pack.New())
}

func BenchmarkUnmarshal_JSON(b *testing.B) {
	benchmarkUnmarshal(b, json.New())
}

func BenchmarkUnmarshal_Pack(b *testing.B) {
	benchmarkUnmarshal(b, pack.New())
}

func BenchmarkEncode_Canonical(b *testing.B) {
	v := molttest.SampleValue()
	opts := pack.EncodeOptions{Canonical: true}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = opts.Encode(v)
	}
}

func BenchmarkDecode_Pack(b *testing.B) {
	data, err := pack.Encode(molttest.SampleValue())
	if err != nil {
		b.Fatalf("Encode() error: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = pack.Decode(data)
	}
}

func BenchmarkTransform_JSONToPack(b *testing.B) {
	molt.Reset()
	formats.RegisterAll()
	ctx := context.Background()

	seed, err := molt.Stringify(molt.FormatJSON, molttest.SampleDocument())
	if err != nil {
		b.Fatalf("Stringify() error: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = molt.Transform(ctx, seed, molt.FormatJSON, molt.FormatPack)
	}
}
