// Package format renders syntax trees back into Python source.
//
// Назначение: строковое представление выражений (значения по умолчанию в
// FormatArgs, вывод CLI) и печать целых модулей. Вывод канонический: исходные
// пробелы и комментарии не сохраняются, скобки ставятся только там, где без
// них изменился бы порядок вычисления.
package format
