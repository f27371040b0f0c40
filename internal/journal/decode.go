package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"vantage-journal/internal/domain"
)

// ParseError reports a trade field that could not be decoded. The offending
// value is carried verbatim for error surfaces.
type ParseError struct {
	Field string
	Value any
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse trade field %q (value %v): %v", e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Accepted timestamp layouts, most specific first.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DecodeTrade converts a loosely-typed record, as delivered by JSON bodies
// or CSV import, into a validated TradeRecord. Unknown keys are ignored;
// missing optional fields decode to their zero values. A field that is
// present but unparseable yields a ParseError.
func DecodeTrade(raw map[string]any) (domain.TradeRecord, error) {
	var t domain.TradeRecord
	var err error

	if v, ok := raw["trade_id"]; ok {
		t.TradeID, err = decodeString("trade_id", v)
		if err != nil {
			return domain.TradeRecord{}, err
		}
	}
	if v, ok := raw["user_id"]; ok {
		t.UserID, err = decodeString("user_id", v)
		if err != nil {
			return domain.TradeRecord{}, err
		}
	}
	if v, ok := raw["symbol"]; ok {
		t.Symbol, err = decodeString("symbol", v)
		if err != nil {
			return domain.TradeRecord{}, err
		}
	}
	if v, ok := raw["setup"]; ok {
		t.Setup, err = decodeString("setup", v)
		if err != nil {
			return domain.TradeRecord{}, err
		}
	}
	if v, ok := raw["direction"]; ok {
		dir, derr := decodeString("direction", v)
		if derr != nil {
			return domain.TradeRecord{}, derr
		}
		switch domain.Direction(dir) {
		case domain.DirectionLong, domain.DirectionShort, "":
			t.Direction = domain.Direction(dir)
		default:
			return domain.TradeRecord{}, &ParseError{Field: "direction", Value: dir, Err: fmt.Errorf("must be %q or %q", domain.DirectionLong, domain.DirectionShort)}
		}
	}

	decimalFields := []struct {
		key string
		dst *decimal.Decimal
	}{
		{"entry_price", &t.EntryPrice},
		{"exit_price", &t.ExitPrice},
		{"stop_loss_price", &t.StopLossPrice},
		{"take_profit_price", &t.TakeProfitPrice},
		{"position_size", &t.PositionSize},
		{"lowest_price_during_trade", &t.LowestPriceDuringTrade},
		{"highest_price_during_trade", &t.HighestPriceDuringTrade},
		{"p_l", &t.PL},
	}
	for _, f := range decimalFields {
		v, ok := raw[f.key]
		if !ok || v == nil {
			continue
		}
		*f.dst, err = decodeDecimal(f.key, v)
		if err != nil {
			return domain.TradeRecord{}, err
		}
	}

	timeFields := []struct {
		key string
		dst *time.Time
	}{
		{"entry_timestamp", &t.EntryTimestamp},
		{"exit_timestamp", &t.ExitTimestamp},
		{"created_at", &t.CreatedAt},
	}
	for _, f := range timeFields {
		v, ok := raw[f.key]
		if !ok || v == nil {
			continue
		}
		*f.dst, err = decodeTime(f.key, v)
		if err != nil {
			return domain.TradeRecord{}, err
		}
	}

	if v, ok := raw["mistakes"]; ok && v != nil {
		t.Mistakes, err = decodeStringSlice("mistakes", v)
		if err != nil {
			return domain.TradeRecord{}, err
		}
	}

	return t, nil
}

// DecodeTrades decodes a batch, failing on the first bad record with its
// index attached.
func DecodeTrades(raw []map[string]any) ([]domain.TradeRecord, error) {
	trades := make([]domain.TradeRecord, 0, len(raw))
	for i, m := range raw {
		t, err := DecodeTrade(m)
		if err != nil {
			return nil, fmt.Errorf("trade %d: %w", i, err)
		}
		trades = append(trades, t)
	}
	return trades, nil
}

func decodeString(field string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &ParseError{Field: field, Value: v, Err: fmt.Errorf("expected string, got %T", v)}
	}
	return s, nil
}

func decodeDecimal(field string, v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return decimal.Decimal{}, &ParseError{Field: field, Value: v, Err: err}
		}
		return d, nil
	case string:
		if x == "" {
			return decimal.Decimal{}, nil
		}
		d, err := decimal.NewFromString(x)
		if err != nil {
			return decimal.Decimal{}, &ParseError{Field: field, Value: v, Err: err}
		}
		return d, nil
	default:
		return decimal.Decimal{}, &ParseError{Field: field, Value: v, Err: fmt.Errorf("expected number, got %T", v)}
	}
}

func decodeTime(field string, v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		if x == "" {
			return time.Time{}, nil
		}
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, x); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, &ParseError{Field: field, Value: v, Err: fmt.Errorf("unrecognized timestamp format")}
	default:
		return time.Time{}, &ParseError{Field: field, Value: v, Err: fmt.Errorf("expected timestamp, got %T", v)}
	}
}

func decodeStringSlice(field string, v any) ([]string, error) {
	switch x := v.(type) {
	case []string:
		out := make([]string, len(x))
		copy(out, x)
		return out, nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, &ParseError{Field: field, Value: item, Err: fmt.Errorf("expected string element, got %T", item)}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &ParseError{Field: field, Value: v, Err: fmt.Errorf("expected string list, got %T", v)}
	}
}
