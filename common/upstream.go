package common

type WithUpstream interface {
	Upstream() any
}

// Cast walks value along its Upstream() chain until it finds a T.
func Cast[T any](value any) (T, bool) {
	for {
		if cast, isIt := value.(T); isIt {
			return cast, true
		}
		if upstream, hasUpstream := value.(WithUpstream); hasUpstream {
			value = upstream.Upstream()
			continue
		}
		return DefaultValue[T](), false
	}
}

func Top(value any) any {
	for {
		upstream, hasUpstream := value.(WithUpstream)
		if !hasUpstream {
			return value
		}
		value = upstream.Upstream()
	}
}
