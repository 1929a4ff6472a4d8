package ebook

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/trezcool/duka/core"
)

func fieldOf(err error) string {
	if vErr, ok := core.AsValidationError(err); ok {
		return vErr.Field()
	}
	return ""
}

func Test_hasRepeatedRun(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{s: "", want: false},
		{s: "aaaa", want: false},
		{s: "aaaaa", want: true},
		{s: "design aaaaa", want: true},
		{s: "aaAaa", want: false},
		{s: "!!!!!", want: true},
		{s: "ééééé x", want: true},
		{s: "aabbaabbaa", want: false},
	}
	for _, tt := range tests {
		if got := hasRepeatedRun(tt.s, titleMaxRepeats); got != tt.want {
			t.Errorf("hasRepeatedRun(%q) = %v; want %v", tt.s, got, tt.want)
		}
	}
}

func TestCheckTitleQuality(t *testing.T) {
	tests := []struct {
		title   string
		wantErr string
	}{
		{title: "Cálculo Avançado"},
		{title: "test", wantErr: errTitleSpam},
		{title: " Example ", wantErr: errTitleSpam},
		{title: "sample", wantErr: errTitleSpam},
		{title: "testing", wantErr: errTitleWords},
		{title: "aaaaa design", wantErr: errTitleSpam},
		{title: "Physics", wantErr: errTitleWords},
		{title: "Sample Size Estimation"},
	}
	for _, tt := range tests {
		err := CheckTitleQuality(tt.title)
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("CheckTitleQuality(%q) = %v; want nil", tt.title, err)
			}
			continue
		}
		if err == nil || err.Error() != tt.wantErr || fieldOf(err) != "title" {
			t.Errorf("CheckTitleQuality(%q) = %v; want %q on title", tt.title, err, tt.wantErr)
		}
	}
}

func TestAcademicArea_IsValid(t *testing.T) {
	for _, a := range AcademicAreas {
		if !a.IsValid() {
			t.Errorf("%q.IsValid() = false; want true", a)
		}
		if err := CheckAcademicArea(a); err != nil {
			t.Errorf("CheckAcademicArea(%q) = %v; want nil", a, err)
		}
	}
	if len(Areas) != len(AcademicAreas) {
		t.Errorf("len(Areas) = %d; want %d", len(Areas), len(AcademicAreas))
	}

	for _, a := range []AcademicArea{"", "exact_sciences", "Humanities", "ARTS", " LANGUAGES"} {
		if a.IsValid() {
			t.Errorf("%q.IsValid() = true; want false", a)
		}
		if err := CheckAcademicArea(a); fieldOf(err) != "academicArea" {
			t.Errorf("CheckAcademicArea(%q) = %v; want error on academicArea", a, err)
		}
	}
}

func TestNormalizeAcademicArea(t *testing.T) {
	tests := []struct {
		in, want AcademicArea
	}{
		{in: "exact_sciences", want: AreaExactSciences},
		{in: "  Health-Sciences ", want: AreaHealthSciences},
		{in: "HUMANITIES", want: AreaHumanities},
		{in: "", want: ""},
		{in: "arts", want: "ARTS"},
	}
	for _, tt := range tests {
		if got := NormalizeAcademicArea(tt.in); got != tt.want {
			t.Errorf("NormalizeAcademicArea(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestCheckExtensions(t *testing.T) {
	tests := []struct {
		name      string
		check     func(string) error
		url       string
		wantField string
	}{
		{name: "pdf", check: CheckFileExtension, url: "https://cdn/x.pdf"},
		{name: "PDF", check: CheckFileExtension, url: "x.PDF"},
		{name: "no extension", check: CheckFileExtension, url: "https://cdn/x", wantField: "fileUrl"},
		{name: "empty document", check: CheckFileExtension, url: "", wantField: "fileUrl"},
		{name: "image as document", check: CheckFileExtension, url: "x.png", wantField: "fileUrl"},
		{name: "empty cover", check: CheckCoverExtension, url: ""},
		{name: "blank cover", check: CheckCoverExtension, url: "   "},
		{name: "jpg", check: CheckCoverExtension, url: "x.JPG"},
		{name: "document as cover", check: CheckCoverExtension, url: "x.pdf", wantField: "coverUrl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fieldOf(tt.check(tt.url)); got != tt.wantField {
				t.Errorf("error field = %q; want %q", got, tt.wantField)
			}
		})
	}
}

func TestCheckPricePageConsistency(t *testing.T) {
	tests := []struct {
		price, pages int
		wantErr      string
	}{
		{price: 0, pages: 100},
		{price: 0, pages: 101, wantErr: errFreeTooLong},
		{price: 1, pages: 10},
		{price: 1, pages: 9, wantErr: errPaidTooShort},
		{price: 0, pages: 1},
		{price: 99999, pages: 2000},
	}
	for _, tt := range tests {
		err := CheckPricePageConsistency(tt.price, tt.pages)
		if tt.wantErr == "" {
			if err != nil {
				t.Errorf("CheckPricePageConsistency(%d, %d) = %v; want nil", tt.price, tt.pages, err)
			}
			continue
		}
		if err == nil || err.Error() != tt.wantErr || fieldOf(err) != "pageCount" {
			t.Errorf("CheckPricePageConsistency(%d, %d) = %v; want %q on pageCount", tt.price, tt.pages, err, tt.wantErr)
		}
	}
}

func TestDecodeSubmission(t *testing.T) {
	valid := func() map[string]interface{} {
		return map[string]interface{}{
			"title":        "Cálculo Avançado",
			"description":  "Um guia completo sobre limites e derivadas.",
			"academicArea": "EXACT_SCIENCES",
			"authorName":   "Ana Lima",
			"price":        json.Number("2990"),
			"pageCount":    float64(150),
			"fileUrl":      "doc.pdf",
		}
	}
	with := func(key string, val interface{}) map[string]interface{} {
		raw := valid()
		if val == nil {
			delete(raw, key)
		} else {
			raw[key] = val
		}
		return raw
	}

	tests := []struct {
		name    string
		raw     map[string]interface{}
		wantErr string
	}{
		{name: "valid", raw: valid()},
		{name: "yaml ints", raw: with("price", 0)},
		{name: "int64", raw: with("pageCount", int64(12))},
		{name: "cover", raw: with("coverUrl", "c.png")},
		{name: "empty record", raw: map[string]interface{}{}, wantErr: "title is required"},
		{name: "missing description", raw: with("description", nil), wantErr: "description is required"},
		{name: "title not a string", raw: with("title", 42.0), wantErr: "title must be a string"},
		{name: "area not a string", raw: with("academicArea", []interface{}{"EXACT_SCIENCES"}), wantErr: "academicArea must be a string"},
		{name: "missing price", raw: with("price", nil), wantErr: "price is required"},
		{name: "price as string", raw: with("price", "2990"), wantErr: "price must be a number"},
		{name: "fractional price", raw: with("price", 29.9), wantErr: "price must be an integer"},
		{name: "fractional json price", raw: with("price", json.Number("29.90")), wantErr: "price must be an integer"},
		{name: "huge page count", raw: with("pageCount", math.MaxFloat64), wantErr: "pageCount is too large"},
		{name: "infinite page count", raw: with("pageCount", math.Inf(1)), wantErr: "pageCount is too large"},
		{name: "NaN page count", raw: with("pageCount", math.NaN()), wantErr: "pageCount must be an integer"},
		{name: "max int32 price", raw: with("price", math.MaxInt32)},
		{name: "yaml int price too large", raw: with("price", 3000000000), wantErr: "price is too large"},
		{name: "int64 price too large", raw: with("price", int64(3000000000)), wantErr: "price is too large"},
		{name: "float price too large", raw: with("price", float64(3000000000)), wantErr: "price is too large"},
		{name: "json price too large", raw: with("price", json.Number("3000000000")), wantErr: "price is too large"},
		{name: "json price beyond int64", raw: with("price", json.Number("99999999999999999999999")), wantErr: "price is too large"},
		{name: "json exponent price too large", raw: with("price", json.Number("1e400")), wantErr: "price is too large"},
		{name: "yaml uint64 price too large", raw: with("price", uint64(math.MaxUint64)), wantErr: "price is too large"},
		{name: "price too small", raw: with("price", int64(math.MinInt32)-1), wantErr: "price is too small"},
		{name: "boolean page count", raw: with("pageCount", true), wantErr: "pageCount must be a number"},
		{name: "missing file", raw: with("fileUrl", nil), wantErr: "fileUrl is required"},
		{name: "cover not a string", raw: with("coverUrl", 1), wantErr: "coverUrl must be a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeSubmission(tt.raw)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("DecodeSubmission() error = %v; want nil", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("DecodeSubmission() error = %v; want %q", err, tt.wantErr)
			}
		})
	}

	sub, err := DecodeSubmission(valid())
	if err != nil {
		t.Fatalf("DecodeSubmission() error = %v", err)
	}
	if sub.Price != 2990 || sub.PageCount != 150 || sub.CoverURL != "" || sub.AcademicArea != AreaExactSciences {
		t.Errorf("DecodeSubmission() = %+v", sub)
	}
}

func TestEbook_PriceDisplay(t *testing.T) {
	tests := []struct {
		price int
		want  string
	}{
		{price: 0, want: "free"},
		{price: 5, want: "0.05"},
		{price: 2990, want: "29.90"},
		{price: 100000, want: "1000.00"},
	}
	for _, tt := range tests {
		if got := (Ebook{Price: tt.price}).PriceDisplay(); got != tt.want {
			t.Errorf("Ebook{Price: %d}.PriceDisplay() = %q; want %q", tt.price, got, tt.want)
		}
	}
}

func TestQueryFilter_Clean(t *testing.T) {
	qf := QueryFilter{Search: "  calc ", Areas: []string{"exact-sciences", " ", "humanities"}, Author: " Ana "}
	qf.Clean()
	if qf.Search != "calc" || qf.Author != "Ana" {
		t.Errorf("Clean() = %+v", qf)
	}
	if len(qf.Areas) != 2 || qf.Areas[0] != string(AreaExactSciences) || qf.Areas[1] != string(AreaHumanities) {
		t.Errorf("Clean().Areas = %v", qf.Areas)
	}

	qf = QueryFilter{Areas: []string{""}}
	qf.Clean()
	if !qf.IsEmpty() {
		t.Errorf("Clean() = %+v; want empty filter", qf)
	}
}
