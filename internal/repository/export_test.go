package repository

var (
	FormatTime    = formatTime
	ParseTime     = parseTime
	ParseNullTime = parseNullTime
)
