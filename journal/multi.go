package journal

// Multi fans every record out to all underlying journals. The first error
// stops the fan-out.
type Multi []Journal

func (m Multi) RecordTrade(t TradeRecord) error {
	for _, j := range m {
		if err := j.RecordTrade(t); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) RecordEquity(e EquitySnapshot) error {
	for _, j := range m {
		if err := j.RecordEquity(e); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var first error
	for _, j := range m {
		if err := j.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
