package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Понижение CST → AST
	LowInfo           Code = 2000
	LowMalformed      Code = 2001
	LowSyntaxError    Code = 2002
	LowNotImplemented Code = 2003
	LowRepairApplied  Code = 2004
	LowRepairLimit    Code = 2005
	LowRepairFailed   Code = 2006

	// I/O
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	IOParseError    Code = 4002
	IOCacheError    Code = 4003

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Внутренние дефекты движка
	IntInternal Code = 9001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:       "Unknown error",
		LowInfo:           "Lowering information",
		LowMalformed:      "Malformed or unsupported C construct",
		LowSyntaxError:    "Syntax error in concrete tree",
		LowNotImplemented: "Construct is not supported yet",
		LowRepairApplied:  "Syntax error repaired by fixer",
		LowRepairLimit:    "Too many repair attempts",
		LowRepairFailed:   "Fixer could not repair the input",
		IOInfo:            "I/O information",
		IOLoadFileError:   "I/O load file error",
		IOParseError:      "Grammar engine failed",
		IOCacheError:      "Cache access failed",
		ObsInfo:           "Observability information",
		ObsTimings:        "Pipeline timings",
		IntInternal:       "Internal lowering defect",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("INT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
