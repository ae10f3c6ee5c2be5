// formatação numérica de headers sem passar por fmt
// (strconv.FormatFloat evita notação científica em valores comuns).

package httpapi

import "strconv"

func formatInt(v int) string { return strconv.Itoa(v) }

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
