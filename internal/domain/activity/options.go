package activity

const (
	DefaultLimit = 20
	MaxLimit     = 200
)

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	Project      string
	ActivityType *ActivityType
	Limit        int
}

func (o ListActivityOptions) limit() int {
	switch {
	case o.Limit <= 0:
		return DefaultLimit
	case o.Limit > MaxLimit:
		return MaxLimit
	default:
		return o.Limit
	}
}
