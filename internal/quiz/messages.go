package quiz

// Message catalog. Reports group on these exact strings.
const (
	MsgMissingTitle       = "Template error - missing title"
	MsgEmptyText          = "Template error - empty question text"
	MsgMissingAnswer      = "Template error - missing answer"
	MsgInsufficientValues = "Template error - insufficient values in row"
	MsgTitleNotText       = "Template error - title cell cannot be read"
	MsgTextNotText        = "Template error - question text cell cannot be read"

	MsgWrongSumOneQuarter    = "Template error - wrong sum for 1/4 points"
	MsgWrongSumTwoQuarters   = "Template error - wrong sum for 2/4 points"
	MsgWrongSumThreeQuarters = "Template error - wrong sum for 3/4 points"
	MsgWrongSum              = "Template error - wrong sum of points"
	MsgWrongSumTrueFalse     = "Template error - wrong sum for true/false points"
	MsgPointsNotQuarter      = "Template error - points must be 0, 1/4, 1/2, 3/4 or 1"
	MsgCannotCheckPoints     = "Template error - cannot check points"
	MsgPointsNotNumber       = "Template error - points value is not a number"

	MsgDuplicateTitle  = "Duplicate question title"
	MsgDuplicateAnswer = "Duplicate answer"

	MsgUnreadableFile  = "File error - spreadsheet cannot be read"
	MsgUnsupportedFile = "File error - unsupported file type"
	MsgNoSheet         = "File error - workbook has no sheets"
	MsgImportFailed    = "File error - import of this file failed"
)
