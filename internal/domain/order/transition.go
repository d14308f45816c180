package order

// ValidateTransition checks a requested status change.
func ValidateTransition(from, to Status) error {
	if !to.Valid() {
		return ErrInvalidInput
	}
	switch from {
	case StatusPending:
		if to == StatusConfirmed || to == StatusCancelled {
			return nil
		}
	case StatusConfirmed:
		if to == StatusCompleted || to == StatusCancelled {
			return nil
		}
	}
	return ErrInvalidTransition
}

// Deletable reports whether an order in status s may be removed.
func Deletable(s Status) bool {
	return s == StatusPending || s == StatusCancelled
}
