package division

type Division struct {
	ID       int64
	SeasonID int64
	Name     string
}
