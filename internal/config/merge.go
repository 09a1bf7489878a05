package config

// The two merge policies below are intentionally distinct and must stay
// separate operations. MergeOverride lets a nil in the partial set silently
// keep the default, while MergeFillNull protects values the base set has
// already resolved from being replaced.

// MergeOverride copies defaults, then overwrites every field for which
// partial carries a non-nil value. This is the primary connect path:
// anything the source did not specify falls back to the defaults.
func MergeOverride(defaults, partial Params) Params {
	out := defaults.clone()
	if partial.Host != nil {
		out.Host = clonePtr(partial.Host)
	}
	if partial.Port != nil {
		out.Port = clonePtr(partial.Port)
	}
	if partial.User != nil {
		out.User = clonePtr(partial.User)
	}
	if partial.Password != nil {
		out.Password = clonePtr(partial.Password)
	}
	if partial.Database != nil {
		out.Database = clonePtr(partial.Database)
	}
	if partial.Charset != nil {
		out.Charset = clonePtr(partial.Charset)
	}
	return out
}

// MergeFillNull copies base, then fills only the fields base left nil with
// values from partial. Non-nil values already in base are never overwritten.
// Used by connection testing, where a user-supplied override sits in base and
// the defaults fill whatever it left open.
func MergeFillNull(base, partial Params) Params {
	out := base.clone()
	if out.Host == nil {
		out.Host = clonePtr(partial.Host)
	}
	if out.Port == nil {
		out.Port = clonePtr(partial.Port)
	}
	if out.User == nil {
		out.User = clonePtr(partial.User)
	}
	if out.Password == nil {
		out.Password = clonePtr(partial.Password)
	}
	if out.Database == nil {
		out.Database = clonePtr(partial.Database)
	}
	if out.Charset == nil {
		out.Charset = clonePtr(partial.Charset)
	}
	return out
}

// clone deep-copies a Params so merge results never alias their inputs.
func (p Params) clone() Params {
	return Params{
		Host:     clonePtr(p.Host),
		Port:     clonePtr(p.Port),
		User:     clonePtr(p.User),
		Password: clonePtr(p.Password),
		Database: clonePtr(p.Database),
		Charset:  clonePtr(p.Charset),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
