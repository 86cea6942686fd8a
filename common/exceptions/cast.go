package exceptions

func Cast[T any](err error) (T, bool) {
	var emptyValue T
	if err == nil {
		return emptyValue, false
	}

	for {
		interfaceError, isInterface := err.(T)
		if isInterface {
			return interfaceError, true
		}
		switch x := err.(type) {
		case interface{ Unwrap() error }:
			err = x.Unwrap()
			if err == nil {
				return emptyValue, false
			}
		case interface{ Unwrap() []error }:
			for _, innerErr := range x.Unwrap() {
				if interfaceError, isInterface = Cast[T](innerErr); isInterface {
					return interfaceError, true
				}
			}
			return emptyValue, false
		default:
			return emptyValue, false
		}
	}
}
