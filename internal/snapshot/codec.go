package snapshot

import (
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/firstcredit-backend/internal/account"
)

// Codec turns snapshots into blobs and back. Top-level fields missing from a
// stored document take their value from the default snapshot, then the result
// is normalized.
type Codec struct {
	engine *account.Engine
}

func NewCodec(engine *account.Engine) Codec {
	return Codec{engine: engine}
}

func (c Codec) Encode(state account.State) ([]byte, error) {
	data, err := json.Marshal(c.engine.Normalize(state))
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

func (c Codec) Decode(data []byte) (account.State, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return account.State{}, fmt.Errorf("decode snapshot: %w", err)
	}
	var state account.State
	if err := json.Unmarshal(data, &state); err != nil {
		return account.State{}, fmt.Errorf("decode snapshot: %w", err)
	}

	defaults := c.engine.DefaultState()
	backfill := map[string]func(){
		"mode":               func() { state.Mode = defaults.Mode },
		"balance":            func() { state.Balance = defaults.Balance },
		"weekly_allowance":   func() { state.WeeklyAllowance = defaults.WeeklyAllowance },
		"current_week_index": func() { state.CurrentWeekIndex = defaults.CurrentWeekIndex },
		"items":              func() { state.Items = defaults.Items },
		"requests":           func() { state.Requests = defaults.Requests },
		"ledger":             func() { state.Ledger = defaults.Ledger },
	}
	for field, fill := range backfill {
		if _, ok := fields[field]; !ok {
			fill()
		}
	}
	return c.engine.Normalize(state), nil
}
