package moneta

import (
	"errors"
	"fmt"
	"slices"

	"github.com/govalues/decimal"
	shopspring "github.com/shopspring/decimal"
)

const (
	// DefaultErrorScale is the error detection scale of a context created
	// without [WithErrorScale].
	DefaultErrorScale = 8
	// MinErrorScale is the smallest error detection scale a context accepts.
	MinErrorScale = 4
)

type config struct {
	curr     Currency
	currCode string
	provider CurrencyProvider
	mode     RoundingMode
	errScale int
}

// Option configures a [Context].
type Option func(*config)

// WithDefaultCurrency sets the currency of money created with [Context.New]
// and [Context.Parse].
func WithDefaultCurrency(c Currency) Option {
	return func(cfg *config) {
		cfg.curr = c
		cfg.currCode = ""
	}
}

// WithDefaultCurrencyCode sets the default currency by code.
// The code is resolved with the currency provider of the context when the
// context is created.
func WithDefaultCurrencyCode(code string) Option {
	return func(cfg *config) { cfg.currCode = code }
}

// WithCurrencyProvider sets the provider used to resolve currency codes.
func WithCurrencyProvider(p CurrencyProvider) Option {
	return func(cfg *config) { cfg.provider = p }
}

// WithRoundingMode sets the rounding mode of the implicit operations.
func WithRoundingMode(m RoundingMode) Option {
	return func(cfg *config) { cfg.mode = m }
}

// WithErrorScale sets the number of digits after the decimal point used
// to detect rounding errors.
// It must be at least [MinErrorScale] and not less than the scale of any
// currency used with the context.
func WithErrorScale(scale int) Option {
	return func(cfg *config) { cfg.errScale = scale }
}

// Context creates money and keeps the ledger of rounding errors produced by
// the implicit operations on that money.
//
// Every operation comes in two forms.
// The explicit form (for example [Money.AddResidue]) returns the residue of
// rounding to its caller and never touches the ledger.
// The implicit form (for example [Money.Add]) appends the residue to the
// ledger of the context when it is not zero.
// The ledger must be checked with [Context.EnsureNoErrors] or [Context.Close]
// at the end of the life of the context, see also [Run].
//
// A Context is not safe for concurrent use: the ledger is appended to
// without synchronization.
// Money values themselves are immutable.
type Context struct {
	curr     Currency
	provider CurrencyProvider
	mode     RoundingMode
	errScale int
	ledger   []RoundingError
}

// NewContext returns a new context.
// Without options, the default currency is [Undefined], the provider is
// [NullProvider], the rounding mode is [HalfToEven] and the error detection
// scale is [DefaultErrorScale].
//
// NewContext returns an error if:
//   - the error detection scale is less than [MinErrorScale] or greater than [decimal.MaxScale];
//   - the scale of the default currency is greater than the error detection scale;
//   - the default currency code cannot be resolved;
//   - the rounding mode is unknown.
func NewContext(opts ...Option) (*Context, error) {
	cfg := config{
		curr:     Undefined(),
		provider: NullProvider{},
		mode:     HalfToEven,
		errScale: DefaultErrorScale,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	ctx, err := newContext(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating context: %w", err)
	}
	return ctx, nil
}

func newContext(cfg config) (*Context, error) {
	if cfg.provider == nil {
		return nil, fmt.Errorf("%w: nil currency provider", ErrInvalidConfiguration)
	}
	if !cfg.mode.valid() {
		return nil, fmt.Errorf("%w: unknown rounding mode %v", ErrInvalidConfiguration, uint8(cfg.mode))
	}
	if cfg.errScale < MinErrorScale || cfg.errScale > decimal.MaxScale {
		return nil, fmt.Errorf("%w: error detection scale %v is out of range [%v, %v]", ErrInvalidConfiguration, cfg.errScale, MinErrorScale, decimal.MaxScale)
	}
	if cfg.currCode != "" {
		c, err := Lookup(cfg.provider, cfg.currCode)
		if err != nil {
			return nil, err
		}
		cfg.curr = c
	}
	ctx := &Context{
		curr:     cfg.curr,
		provider: cfg.provider,
		mode:     cfg.mode,
		errScale: cfg.errScale,
	}
	if err := ctx.checkCurr(ctx.curr); err != nil {
		return nil, err
	}
	return ctx, nil
}

// MustNewContext is like [NewContext] but panics if the context cannot be created.
func MustNewContext(opts ...Option) *Context {
	ctx, err := NewContext(opts...)
	if err != nil {
		panic(fmt.Sprintf("NewContext() failed: %v", err))
	}
	return ctx
}

// Run creates a context, calls fn with it and checks the ledger of the
// context when fn returns.
// The returned error joins the error of fn and the error of
// [Context.EnsureNoErrors].
func Run(fn func(*Context) error, opts ...Option) (err error) {
	ctx, err := NewContext(opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, ctx.EnsureNoErrors())
	}()
	return fn(ctx)
}

// DefaultCurr returns the default currency of the context.
func (ctx *Context) DefaultCurr() Currency {
	return ctx.curr
}

// Provider returns the currency provider of the context.
func (ctx *Context) Provider() CurrencyProvider {
	return ctx.provider
}

// Mode returns the rounding mode of the implicit operations.
func (ctx *Context) Mode() RoundingMode {
	return ctx.mode
}

// ErrorScale returns the error detection scale of the context.
func (ctx *Context) ErrorScale() int {
	return ctx.errScale
}

func (ctx *Context) checkCurr(c Currency) error {
	if c.Code() == "" {
		return fmt.Errorf("%w: zero currency", ErrInvalidConfiguration)
	}
	if c.Scale() > ctx.errScale {
		return fmt.Errorf("%w: currency %v has more decimal places (%v) than the error detection scale (%v)", ErrInvalidConfiguration, c.Code(), c.Scale(), ctx.errScale)
	}
	return nil
}

// round rounds raw in two stages: first to the error detection scale of the
// context, then to the given scale.
// The residue is the difference between the two stages, so a loss that only
// exists beyond the error detection scale is not reported.
func (ctx *Context) round(raw decimal.Decimal, scale int, mode RoundingMode) (final, residue decimal.Decimal, err error) {
	internal, err := mode.Round(raw, ctx.errScale)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	final, err = mode.Round(internal, scale)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	residue, err = internal.Sub(final)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	return final, residue, nil
}

// roundBig is like round for a result that a decimal cannot hold exactly.
// The internal value must already be rounded to the error detection scale.
func (ctx *Context) roundBig(internal shopspring.Decimal, scale int, mode RoundingMode) (final, residue decimal.Decimal, err error) {
	if !mode.valid() {
		return decimal.Decimal{}, decimal.Decimal{}, fmt.Errorf("%w: unknown rounding mode %v", ErrInvalidConfiguration, uint8(mode))
	}
	f := mode.roundBig(internal, scale)
	final, err = decimalFromBig(f, scale)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	residue, err = decimalFromBig(internal.Sub(f), ctx.errScale)
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, err
	}
	return final, residue, nil
}

// NewMoneyResidue returns money equal to d rounded to the scale of currency
// curr with the given mode, and the residue of that rounding.
// The ledger is not updated.
//
// NewMoneyResidue returns an error if the scale of the currency is greater
// than the error detection scale of the context or the amount overflows.
func (ctx *Context) NewMoneyResidue(curr Currency, d decimal.Decimal, mode RoundingMode) (Money, decimal.Decimal, error) {
	m, r, err := ctx.newMoneyResidue(curr, d, mode)
	if err != nil {
		return Money{}, decimal.Decimal{}, fmt.Errorf("creating [%v %v]: %w", curr.Code(), d, err)
	}
	return m, r, nil
}

func (ctx *Context) newMoneyResidue(curr Currency, d decimal.Decimal, mode RoundingMode) (Money, decimal.Decimal, error) {
	if err := ctx.checkCurr(curr); err != nil {
		return Money{}, decimal.Decimal{}, err
	}
	final, residue, err := ctx.round(d, curr.Scale(), mode)
	if err != nil {
		return Money{}, decimal.Decimal{}, err
	}
	m, err := newMoney(ctx, curr, final)
	if err != nil {
		return Money{}, decimal.Decimal{}, err
	}
	return m, residue, nil
}

// NewMoney is like [Context.NewMoneyResidue] with the rounding mode of the
// context, but records a non-zero residue in the ledger.
func (ctx *Context) NewMoney(curr Currency, d decimal.Decimal) (Money, error) {
	m, r, err := ctx.NewMoneyResidue(curr, d, ctx.mode)
	if err != nil {
		return Money{}, err
	}
	ctx.Record(NewRoundingError(OpCreate, r, curr))
	return m, nil
}

// New is like [Context.NewMoney] with the default currency of the context.
func (ctx *Context) New(d decimal.Decimal) (Money, error) {
	return ctx.NewMoney(ctx.curr, d)
}

// Dollar is like [Context.NewMoney] with [USD].
func (ctx *Context) Dollar(d decimal.Decimal) (Money, error) {
	return ctx.NewMoney(USD(), d)
}

// Euro is like [Context.NewMoney] with [EUR].
func (ctx *Context) Euro(d decimal.Decimal) (Money, error) {
	return ctx.NewMoney(EUR(), d)
}

// PoundSterling is like [Context.NewMoney] with [GBP].
func (ctx *Context) PoundSterling(d decimal.Decimal) (Money, error) {
	return ctx.NewMoney(GBP(), d)
}

// Yen is like [Context.NewMoney] with [JPY].
func (ctx *Context) Yen(d decimal.Decimal) (Money, error) {
	return ctx.NewMoney(JPY(), d)
}

// Yuan is like [Context.NewMoney] with [CNY].
func (ctx *Context) Yuan(d decimal.Decimal) (Money, error) {
	return ctx.NewMoney(CNY(), d)
}

// NewFromFloat64 converts a float to money in currency curr.
// A non-zero residue is recorded in the ledger.
//
// NewFromFloat64 returns an error if the float is a special value (NaN or Inf).
func (ctx *Context) NewFromFloat64(curr Currency, f float64) (Money, error) {
	d, err := DecimalFromFloat64(f)
	if err != nil {
		return Money{}, fmt.Errorf("creating [%v %v]: %w", curr.Code(), f, err)
	}
	return ctx.NewMoney(curr, d)
}

// Parse converts a decimal string to money in the default currency.
// A non-zero residue is recorded in the ledger.
func (ctx *Context) Parse(amount string) (Money, error) {
	d, err := DecimalFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("parsing amount: %w", err)
	}
	return ctx.New(d)
}

// ParseIn converts a currency code and a decimal string to money.
// The code is resolved with the provider of the context.
// A non-zero residue is recorded in the ledger.
func (ctx *Context) ParseIn(code, amount string) (Money, error) {
	c, err := Lookup(ctx.provider, code)
	if err != nil {
		return Money{}, fmt.Errorf("parsing currency: %w", err)
	}
	d, err := DecimalFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("parsing amount: %w", err)
	}
	return ctx.NewMoney(c, d)
}

// MustParse is like [Context.Parse] but panics if the string cannot be parsed.
func (ctx *Context) MustParse(amount string) Money {
	m, err := ctx.Parse(amount)
	if err != nil {
		panic(fmt.Sprintf("Parse(%q) failed: %v", amount, err))
	}
	return m
}

// MustParseIn is like [Context.ParseIn] but panics if any of the strings
// cannot be parsed.
func (ctx *Context) MustParseIn(code, amount string) Money {
	m, err := ctx.ParseIn(code, amount)
	if err != nil {
		panic(fmt.Sprintf("ParseIn(%q, %q) failed: %v", code, amount, err))
	}
	return m
}

// Record appends e to the ledger.
// Entries with a zero residue are dropped.
func (ctx *Context) Record(e RoundingError) {
	if e.Residue().IsZero() {
		return
	}
	ctx.ledger = append(ctx.ledger, e)
}

// HasErrors returns true if the ledger is not empty.
func (ctx *Context) HasErrors() bool {
	return len(ctx.ledger) > 0
}

// Errors returns a copy of the ledger in insertion order.
func (ctx *Context) Errors() []RoundingError {
	return slices.Clone(ctx.ledger)
}

// ClearErrors empties the ledger.
func (ctx *Context) ClearErrors() {
	ctx.ledger = nil
}

// EnsureNoErrors returns a [*RoundingErrorsError] holding a snapshot of the
// ledger if the ledger is not empty.
func (ctx *Context) EnsureNoErrors() error {
	if !ctx.HasErrors() {
		return nil
	}
	return &RoundingErrorsError{Errors: ctx.Errors()}
}

// Close implements the [io.Closer] interface and is equivalent to
// [Context.EnsureNoErrors].
// It is meant to be deferred right after the context is created.
//
// [io.Closer]: https://pkg.go.dev/io#Closer
func (ctx *Context) Close() error {
	return ctx.EnsureNoErrors()
}

// Owns returns true if money m was created by the context.
func (ctx *Context) Owns(m Money) bool {
	return m.ctx == ctx
}
