package chrome

var (
	ParseFlag      = parseFlag
	TestExpression = testExpression
)
