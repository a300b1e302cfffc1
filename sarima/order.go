package sarima

import "fmt"

// Order describes the regular (P, D, Q) and seasonal (SP, SD, SQ, M) structure of the model
type Order struct {
	P  int `json:"p"`
	D  int `json:"d"`
	Q  int `json:"q"`
	SP int `json:"seasonal_p"`
	SD int `json:"seasonal_d"`
	SQ int `json:"seasonal_q"`
	M  int `json:"period"`
}

// DefaultOrder is SARIMA(1,1,0)(1,0,0,2), a yearly cycle over half-year periods
func DefaultOrder() Order {
	return Order{P: 1, D: 1, Q: 0, SP: 1, SD: 0, SQ: 0, M: 2}
}

func (o Order) Validate() error {
	if o.Q != 0 || o.SQ != 0 {
		return fmt.Errorf("moving average terms %s, %w", o, ErrUnsupportedOrder)
	}
	if o.P < 0 || o.D < 0 || o.SP < 0 || o.SD < 0 {
		return fmt.Errorf("negative terms %s, %w", o, ErrUnsupportedOrder)
	}
	if (o.SP > 0 || o.SD > 0) && o.M < 2 {
		return fmt.Errorf("seasonal terms require a period of at least 2 %s, %w", o, ErrUnsupportedOrder)
	}
	if o.M < 0 {
		return fmt.Errorf("negative period %s, %w", o, ErrUnsupportedOrder)
	}
	return nil
}

// MinObservations is the shortest input that leaves two points after differencing
func (o Order) MinObservations() int {
	return o.D + o.SD*o.M + 2
}

func (o Order) String() string {
	return fmt.Sprintf("(%d,%d,%d)(%d,%d,%d,%d)", o.P, o.D, o.Q, o.SP, o.SD, o.SQ, o.M)
}
