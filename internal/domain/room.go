package domain

const MaxBoardIDLen = 128

// BoardID identifies a collaborative board. The board id is the room key.
type BoardID string

func (b BoardID) Validate() error {
	if b == "" {
		return ErrBoardIDEmpty
	}
	if len(b) > MaxBoardIDLen {
		return ErrBoardIDTooLong
	}
	return nil
}

// UnmarshalJSON accepts a JSON string or number.
func (b *BoardID) UnmarshalJSON(data []byte) error {
	v, err := decodeBoardID(data)
	if err != nil {
		return err
	}
	*b = v
	return nil
}
