package textcodec

import (
	"fmt"
	"strings"
	"testing"

	"github.com/arloliu/swecodec/component"
	"github.com/arloliu/swecodec/encoding"
)

var benchmarkSizes = []struct {
	name    string
	records int
}{
	{"10", 10},
	{"1000", 1000},
}

func benchSchema() component.Component {
	return component.NewStream("obs", component.NewRecord("r",
		component.NewTime("time", ""),
		component.NewQuantity("temp", "Cel"),
		component.NewCount("n"),
		component.NewText("note"),
	))
}

func benchText(records int) string {
	var sb strings.Builder
	for i := range records {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "2024-01-01T00:00:%02dZ,%d.25,%d,\"a, b\"", i%60, i%40, i)
	}

	return sb.String()
}

// BenchmarkDecode benchmarks decoding CSV records with a quoted token per record
func BenchmarkDecode(b *testing.B) {
	for _, size := range benchmarkSizes {
		text := benchText(size.records)
		b.Run(size.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for b.Loop() {
				if _, err := Decode(text, encoding.CSV(), benchSchema()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkEncode benchmarks encoding decoded records back to CSV
func BenchmarkEncode(b *testing.B) {
	for _, size := range benchmarkSizes {
		values, err := Decode(benchText(size.records), encoding.CSV(), benchSchema())
		if err != nil {
			b.Fatal(err)
		}
		b.Run(size.name, func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := Encode(values, encoding.CSV(), benchSchema()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
