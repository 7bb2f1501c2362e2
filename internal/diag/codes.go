package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Синтаксические (разбор исходника)
	SynInfo        Code = 2000
	SynError       Code = 2001
	SynMissing     Code = 2002
	SynUnsupported Code = 2003
	SynBadLiteral  Code = 2004

	// Анализ дерева
	AnaInfo              Code = 3000
	AnaImportSelf        Code = 3001
	AnaImportUnresolved  Code = 3002
	AnaInferenceFailed   Code = 3003
	AnaNoBlockAtLine     Code = 3004
	AnaNoStatementAtLine Code = 3005
	AnaUnknownFunction   Code = 3006

	// I/O
	IOLoadFileError Code = 4001
	IOReadDirError  Code = 4002
	IOCacheError    Code = 4003

	// Проект
	ProjInfo              Code = 5000
	ProjInvalidConfig     Code = 5001
	ProjSearchPathMissing Code = 5002

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		SynInfo:               "Syntax information",
		SynError:              "Syntax error",
		SynMissing:            "Missing syntax element",
		SynUnsupported:        "Unsupported construct",
		SynBadLiteral:         "Malformed literal",
		AnaInfo:               "Analysis information",
		AnaImportSelf:         "Module imports itself",
		AnaImportUnresolved:   "Unresolved import",
		AnaInferenceFailed:    "Inference failed",
		AnaNoBlockAtLine:      "No block starts at line",
		AnaNoStatementAtLine:  "No statement at line",
		AnaUnknownFunction:    "Unknown function",
		IOLoadFileError:       "I/O load file error",
		IOReadDirError:        "I/O read directory error",
		IOCacheError:          "Tree cache error",
		ProjInfo:              "Project information",
		ProjInvalidConfig:     "Invalid project configuration",
		ProjSearchPathMissing: "Search path does not exist",
		ObsInfo:               "Observability information",
		ObsTimings:            "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("ANA%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
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
