package moneta

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/govalues/decimal"
)

func TestNewContext(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		ctx, err := NewContext()
		if err != nil {
			t.Fatalf("NewContext() failed: %v", err)
		}
		if got := ctx.DefaultCurr(); got != Undefined() {
			t.Errorf("DefaultCurr() = %v, want %v", got, Undefined())
		}
		if got := ctx.Mode(); got != HalfToEven {
			t.Errorf("Mode() = %v, want %v", got, HalfToEven)
		}
		if got := ctx.ErrorScale(); got != DefaultErrorScale {
			t.Errorf("ErrorScale() = %v, want %v", got, DefaultErrorScale)
		}
		if _, ok := ctx.Provider().(NullProvider); !ok {
			t.Errorf("Provider() = %T, want %T", ctx.Provider(), NullProvider{})
		}
		if ctx.HasErrors() {
			t.Errorf("HasErrors() = true, want false")
		}
	})

	t.Run("success", func(t *testing.T) {
		ctx, err := NewContext(
			WithCurrencyProvider(MustNewTable(EUR(), USD())),
			WithDefaultCurrencyCode("usd"),
			WithRoundingMode(TowardZero),
			WithErrorScale(4),
		)
		if err != nil {
			t.Fatalf("NewContext() failed: %v", err)
		}
		if got := ctx.DefaultCurr(); got != USD() {
			t.Errorf("DefaultCurr() = %v, want %v", got, USD())
		}
		if got := ctx.Mode(); got != TowardZero {
			t.Errorf("Mode() = %v, want %v", got, TowardZero)
		}
		if got := ctx.ErrorScale(); got != 4 {
			t.Errorf("ErrorScale() = %v, want 4", got)
		}
	})

	t.Run("error", func(t *testing.T) {
		btc := MustNewCurrency("BTC", "Bitcoin", "₿", 10)
		tests := map[string][]Option{
			"error scale too small": {WithErrorScale(3)},
			"error scale too large": {WithErrorScale(20)},
			"unknown rounding mode": {WithRoundingMode(RoundingMode(42))},
			"currency scale":        {WithDefaultCurrency(btc)},
			"currency scale at 4":   {WithDefaultCurrency(EUR()), WithErrorScale(4), WithDefaultCurrency(MustNewCurrency("BHD", "Dinar", "BD", 5))},
			"zero currency":         {WithDefaultCurrency(Currency{})},
			"nil provider":          {WithCurrencyProvider(nil)},
			"unknown currency code": {WithDefaultCurrencyCode("EUR")},
			"unknown code in table": {WithCurrencyProvider(MustNewTable(EUR())), WithDefaultCurrencyCode("GBP")},
		}
		for name, opts := range tests {
			_, err := NewContext(opts...)
			if err == nil {
				t.Errorf("NewContext() with %v did not fail", name)
			}
		}
	})

	t.Run("error message", func(t *testing.T) {
		cur := MustNewCurrency("CUR", "Test", "c", 10)
		_, err := NewContext(WithDefaultCurrency(cur), WithErrorScale(4))
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Fatalf("NewContext() = %v, want %v", err, ErrInvalidConfiguration)
		}
		want := "currency CUR has more decimal places (10) than the error detection scale (4)"
		if !strings.Contains(err.Error(), want) {
			t.Errorf("NewContext() = %q, want it to contain %q", err.Error(), want)
		}
	})
}

func TestMustNewContext(t *testing.T) {
	t.Run("error", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("MustNewContext(WithErrorScale(0)) did not panic")
			}
		}()
		MustNewContext(WithErrorScale(0))
	})
}

func TestContext_NewMoneyResidue(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		xxx2, _ := NewNeutralCurrency(2)
		tests := []struct {
			curr         Currency
			d            string
			mode         RoundingMode
			want, wantRe string
		}{
			{EUR(), "1.125", HalfToEven, "EUR 1.12", "0.005"},
			{EUR(), "1.125", HalfAwayFromZero, "EUR 1.13", "-0.005"},
			{EUR(), "1.1", HalfToEven, "EUR 1.10", "0"},
			{EUR(), "-1.125", TowardNegativeInf, "EUR -1.13", "0.005"},
			{JPY(), "1234.5", HalfToEven, "JPY 1234", "0.5"},
			{Undefined(), "10.1001", HalfToEven, "XXX 10.1001", "0"},
			{xxx2, "0.019", TowardZero, "XXX 0.01", "0.009"},
			// losses beyond the error detection scale are not reported
			{EUR(), "1.000000001", HalfToEven, "EUR 1.00", "0"},
			{EUR(), "1.004999999", HalfToEven, "EUR 1.00", "0.005"},
		}
		for _, tt := range tests {
			ctx := MustNewContext()
			d := decimal.MustParse(tt.d)
			got, res, err := ctx.NewMoneyResidue(tt.curr, d, tt.mode)
			if err != nil {
				t.Errorf("NewMoneyResidue(%v, %v, %v) failed: %v", tt.curr, d, tt.mode, err)
				continue
			}
			if got.String() != tt.want {
				t.Errorf("NewMoneyResidue(%v, %v, %v) = %v, want %v", tt.curr, d, tt.mode, got, tt.want)
			}
			if res.Cmp(decimal.MustParse(tt.wantRe)) != 0 {
				t.Errorf("NewMoneyResidue(%v, %v, %v) residue = %v, want %v", tt.curr, d, tt.mode, res, tt.wantRe)
			}
			if ctx.HasErrors() {
				t.Errorf("NewMoneyResidue(%v, %v, %v) recorded a rounding error", tt.curr, d, tt.mode)
			}
			if !ctx.Owns(got) {
				t.Errorf("NewMoneyResidue(%v, %v, %v) returned money of another context", tt.curr, d, tt.mode)
			}
		}
	})

	t.Run("error", func(t *testing.T) {
		ctx := MustNewContext(WithErrorScale(4))
		cur := MustNewCurrency("CUR", "Test", "c", 6)
		_, _, err := ctx.NewMoneyResidue(cur, decimal.MustParse("1"), HalfToEven)
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("NewMoneyResidue(%v, 1) = %v, want %v", cur, err, ErrInvalidConfiguration)
		}
		_, _, err = ctx.NewMoneyResidue(EUR(), decimal.MustParse("1"), RoundingMode(42))
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("NewMoneyResidue(EUR, 1, 42) = %v, want %v", err, ErrInvalidConfiguration)
		}
	})
}

func TestContext_NewMoney(t *testing.T) {
	ctx := MustNewContext(WithDefaultCurrency(EUR()))

	m, err := ctx.NewMoney(EUR(), decimal.MustParse("1.125"))
	if err != nil {
		t.Fatalf("NewMoney() failed: %v", err)
	}
	if m.String() != "EUR 1.12" {
		t.Errorf("NewMoney() = %v, want EUR 1.12", m)
	}
	errs := ctx.Errors()
	if len(errs) != 1 {
		t.Fatalf("len(Errors()) = %v, want 1", len(errs))
	}
	if errs[0].Op() != OpCreate || errs[0].Residue().Cmp(decimal.MustParse("0.005")) != 0 || !errs[0].Curr().Equal(EUR()) {
		t.Errorf("Errors()[0] = %v, want create: EUR 0.005", errs[0])
	}

	// zero residue is not recorded
	if _, err := ctx.New(decimal.MustParse("7.5")); err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if n := len(ctx.Errors()); n != 1 {
		t.Errorf("len(Errors()) = %v, want 1", n)
	}
}

func TestContext_CommonCurrencies(t *testing.T) {
	ctx := MustNewContext()
	d := decimal.MustParse("1.5")
	tests := []struct {
		name string
		fn   func(decimal.Decimal) (Money, error)
		want string
	}{
		{"Dollar", ctx.Dollar, "USD 1.50"},
		{"Euro", ctx.Euro, "EUR 1.50"},
		{"PoundSterling", ctx.PoundSterling, "GBP 1.50"},
		{"Yen", ctx.Yen, "JPY 2"},
		{"Yuan", ctx.Yuan, "CNY 1.50"},
	}
	for _, tt := range tests {
		got, err := tt.fn(d)
		if err != nil {
			t.Errorf("%v(%v) failed: %v", tt.name, d, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("%v(%v) = %v, want %v", tt.name, d, got, tt.want)
		}
		if !ctx.Owns(got) {
			t.Errorf("%v(%v) is not owned by the context", tt.name, d)
		}
	}
	errs := ctx.Errors()
	if len(errs) != 1 || errs[0].Op() != OpCreate || !errs[0].Curr().Equal(JPY()) || errs[0].Residue().Cmp(decimal.MustParse("-0.5")) != 0 {
		t.Errorf("Errors() = %v, want [create: JPY -0.5]", errs)
	}
}

func TestContext_Parse(t *testing.T) {
	tab := MustNewTable(EUR(), USD(), JPY())

	t.Run("success", func(t *testing.T) {
		ctx := MustNewContext(WithCurrencyProvider(tab), WithDefaultCurrencyCode("EUR"))
		tests := []struct {
			code, amount, want string
		}{
			{"", "10", "EUR 10.00"},
			{"", "-0.5", "EUR -0.50"},
			{"usd", "1.23", "USD 1.23"},
			{"JPY", "100", "JPY 100"},
		}
		for _, tt := range tests {
			var got Money
			var err error
			if tt.code == "" {
				got, err = ctx.Parse(tt.amount)
			} else {
				got, err = ctx.ParseIn(tt.code, tt.amount)
			}
			if err != nil {
				t.Errorf("Parse(%q, %q) failed: %v", tt.code, tt.amount, err)
				continue
			}
			if got.String() != tt.want {
				t.Errorf("Parse(%q, %q) = %v, want %v", tt.code, tt.amount, got, tt.want)
			}
		}
		if ctx.HasErrors() {
			t.Errorf("HasErrors() = true, want false")
		}
	})

	t.Run("error", func(t *testing.T) {
		ctx := MustNewContext(WithCurrencyProvider(tab))
		if _, err := ctx.Parse("abc"); !errors.Is(err, ErrConversion) {
			t.Errorf("Parse(%q) = %v, want %v", "abc", err, ErrConversion)
		}
		if _, err := ctx.ParseIn("GBP", "1"); !errors.Is(err, ErrCurrencyNotFound) {
			t.Errorf("ParseIn(%q, %q) = %v, want %v", "GBP", "1", err, ErrCurrencyNotFound)
		}
		if _, err := ctx.ParseIn("EUR", "1..0"); !errors.Is(err, ErrConversion) {
			t.Errorf("ParseIn(%q, %q) = %v, want %v", "EUR", "1..0", err, ErrConversion)
		}
	})
}

func TestContext_MustParse(t *testing.T) {
	ctx := MustNewContext()

	t.Run("success", func(t *testing.T) {
		if got := ctx.MustParse("1"); got.String() != "XXX 1.0000" {
			t.Errorf("MustParse(\"1\") = %v, want XXX 1.0000", got)
		}
	})

	t.Run("error", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("MustParse(\"x\") did not panic")
			}
		}()
		ctx.MustParse("x")
	})

	t.Run("error in", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("MustParseIn(\"EUR\", \"1\") did not panic")
			}
		}()
		ctx.MustParseIn("EUR", "1")
	})
}

func TestContext_NewFromFloat64(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctx := MustNewContext()
		got, err := ctx.NewFromFloat64(EUR(), 1.5)
		if err != nil {
			t.Fatalf("NewFromFloat64() failed: %v", err)
		}
		if got.String() != "EUR 1.50" {
			t.Errorf("NewFromFloat64() = %v, want EUR 1.50", got)
		}
	})

	t.Run("error", func(t *testing.T) {
		ctx := MustNewContext()
		for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			_, err := ctx.NewFromFloat64(EUR(), f)
			if !errors.Is(err, ErrConversion) {
				t.Errorf("NewFromFloat64(%v) = %v, want %v", f, err, ErrConversion)
			}
		}
	})
}

func TestContext_Ledger(t *testing.T) {
	ctx := MustNewContext()

	ctx.Record(NewRoundingError(OpAdd, decimal.MustParse("0"), EUR()))
	if ctx.HasErrors() {
		t.Errorf("Record() of a zero residue added an entry")
	}
	if err := ctx.EnsureNoErrors(); err != nil {
		t.Errorf("EnsureNoErrors() = %v, want nil", err)
	}

	ctx.Record(NewRoundingError(OpAdd, decimal.MustParse("0.01"), EUR()))
	ctx.Record(NewRoundingError(OpQuo, decimal.MustParse("-0.02"), EUR()))
	if !ctx.HasErrors() {
		t.Errorf("HasErrors() = false, want true")
	}

	errs := ctx.Errors()
	if len(errs) != 2 || errs[0].Op() != OpAdd || errs[1].Op() != OpQuo {
		t.Fatalf("Errors() = %v, want [add, divide]", errs)
	}
	errs[0] = NewRoundingError(OpMap, decimal.MustParse("1"), USD())
	if ctx.Errors()[0].Op() != OpAdd {
		t.Errorf("Errors() returned the ledger instead of a copy")
	}

	err := ctx.EnsureNoErrors()
	var ree *RoundingErrorsError
	if !errors.As(err, &ree) {
		t.Fatalf("EnsureNoErrors() = %v, want %T", err, ree)
	}
	if len(ree.Errors) != 2 {
		t.Errorf("EnsureNoErrors() carried %v entries, want 2", len(ree.Errors))
	}
	if err := ctx.Close(); !errors.Is(err, ErrRoundingErrors) {
		t.Errorf("Close() = %v, want %v", err, ErrRoundingErrors)
	}

	ctx.ClearErrors()
	ctx.ClearErrors()
	if ctx.HasErrors() {
		t.Errorf("HasErrors() after ClearErrors() = true, want false")
	}
	if len(ree.Errors) != 2 {
		t.Errorf("ClearErrors() changed a snapshot")
	}
	if err := ctx.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}

func TestContext_Owns(t *testing.T) {
	a, b := MustNewContext(), MustNewContext()
	m := a.MustParse("1")
	if !a.Owns(m) {
		t.Errorf("a.Owns(m) = false, want true")
	}
	if b.Owns(m) {
		t.Errorf("b.Owns(m) = true, want false")
	}
	if a.Owns(Money{}) {
		t.Errorf("a.Owns(Money{}) = true, want false")
	}
}

func TestRun(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		err := Run(func(ctx *Context) error {
			m := ctx.MustParse("1.1")
			_, err := m.Add(m)
			return err
		})
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	})

	t.Run("rounding errors", func(t *testing.T) {
		err := Run(func(ctx *Context) error {
			_, err := ctx.New(decimal.MustParse("1.005"))
			return err
		}, WithDefaultCurrency(EUR()))
		if !errors.Is(err, ErrRoundingErrors) {
			t.Errorf("Run() = %v, want %v", err, ErrRoundingErrors)
		}
	})

	t.Run("handled residue", func(t *testing.T) {
		err := Run(func(ctx *Context) error {
			_, r, err := ctx.NewMoneyResidue(EUR(), decimal.MustParse("1.005"), HalfToEven)
			if err != nil {
				return err
			}
			if r.IsZero() {
				return errors.New("no residue")
			}
			return nil
		})
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	})

	t.Run("joined errors", func(t *testing.T) {
		errFn := errors.New("fn failed")
		err := Run(func(ctx *Context) error {
			_, _ = ctx.New(decimal.MustParse("1.005"))
			return errFn
		}, WithDefaultCurrency(EUR()))
		if !errors.Is(err, errFn) || !errors.Is(err, ErrRoundingErrors) {
			t.Errorf("Run() = %v, want both %v and %v", err, errFn, ErrRoundingErrors)
		}
	})

	t.Run("invalid options", func(t *testing.T) {
		called := false
		err := Run(func(*Context) error {
			called = true
			return nil
		}, WithErrorScale(2))
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("Run() = %v, want %v", err, ErrInvalidConfiguration)
		}
		if called {
			t.Errorf("Run() called fn with an invalid context")
		}
	})
}
