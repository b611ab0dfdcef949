// Package metrics holds the Prometheus collectors for every component.
package metrics

const namespace = "tideshash"

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
