package book

import (
	"encoding/json"
	"fmt"
)

// The status and kind enums travel as their string names on the wire.

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v {
	case "pending":
		*s = OrderPending
	case "filled":
		*s = OrderFilled
	case "cancelled":
		*s = OrderCancelled
	default:
		return fmt.Errorf("unknown order status %q", v)
	}
	return nil
}

func (k OrderKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *OrderKind) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v {
	case "entry":
		*k = KindEntry
	case "stop":
		*k = KindStop
	case "take_profit":
		*k = KindTakeProfit
	default:
		return fmt.Errorf("unknown order kind %q", v)
	}
	return nil
}

func (s PositionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PositionStatus) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v {
	case "open":
		*s = PositionOpen
	case "closed":
		*s = PositionClosed
	default:
		return fmt.Errorf("unknown position status %q", v)
	}
	return nil
}
