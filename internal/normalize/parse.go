package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gcbaptista/go-job-matcher/internal/errors"
	"github.com/gcbaptista/go-job-matcher/model"
)

// ParseRawJobs decodes an uploaded jobs document. Two layouts are accepted:
//
//	[ {"id": "J1", "description": "..."}, ... ]
//	{ "J1": {"description": "..."}, ... }
//
// In the keyed layout the key becomes the record id unless the record carries one,
// and records keep the order of the document. Elements that are not JSON objects are
// returned as nil records so the normalizer can count them as malformed.
func ParseRawJobs(data []byte) ([]model.RawJob, error) {
	records, err := ParseRecords(data, "jobs", IDKeys)
	if err != nil {
		return nil, err
	}
	raw := make([]model.RawJob, len(records))
	for i, record := range records {
		if record != nil {
			raw[i] = model.RawJob(record)
		}
	}
	return raw, nil
}

// ParseRecords decodes a JSON array of objects, or an object of objects keyed by id, into
// loose records. In the keyed layout the key is stored under "id" when the record has
// none of idKeys. field names the payload in validation errors.
func ParseRecords(data []byte, field string, idKeys []string) ([]map[string]interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	token, err := decoder.Token()
	if err != nil {
		return nil, errors.NewValidationError(field, fmt.Sprintf("invalid JSON: %v", err))
	}

	delim, ok := token.(json.Delim)
	if !ok || (delim != '[' && delim != '{') {
		return nil, errors.NewValidationError(field, field+" document must be a JSON array or object")
	}

	records := make([]map[string]interface{}, 0)
	for decoder.More() {
		var key string
		if delim == '{' {
			keyToken, err := decoder.Token()
			if err != nil {
				return nil, errors.NewValidationError(field, fmt.Sprintf("invalid JSON: %v", err))
			}
			key, _ = keyToken.(string)
		}

		var element json.RawMessage
		if err := decoder.Decode(&element); err != nil {
			return nil, errors.NewValidationError(field, fmt.Sprintf("invalid JSON: %v", err))
		}

		record := decodeRecord(element)
		if record != nil && delim == '{' && !hasAnyKey(record, idKeys) {
			record["id"] = key
		}
		records = append(records, record)
	}

	if _, err := decoder.Token(); err != nil {
		return nil, errors.NewValidationError(field, fmt.Sprintf("invalid JSON: %v", err))
	}

	return records, nil
}

func decodeRecord(element json.RawMessage) map[string]interface{} {
	trimmed := bytes.TrimSpace(element)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var record map[string]interface{}
	if err := decoder.Decode(&record); err != nil {
		return nil
	}
	return record
}

func hasAnyKey(record map[string]interface{}, keys []string) bool {
	for _, key := range keys {
		if v, ok := record[key]; ok && v != nil {
			return true
		}
	}
	return false
}
