package registry

import (
	"encoding/json"
	"log"
	"time"
)

// logEvent writes a single-line JSON record for machine consumption.
func (c *Client) logEvent(eventType string, data map[string]interface{}) {
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	data["level"] = "info"
	data["component"] = "registry"
	data["event_type"] = eventType
	data["fleet"] = c.fleet

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("[Registry] Failed to marshal log event: %v", err)
		return
	}

	log.Println(string(jsonData))
}
