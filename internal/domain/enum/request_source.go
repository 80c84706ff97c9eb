package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// RequestSource distinguishes requests created by the customer intake flow
// from requests synthesized by the manual invoice builder.
type RequestSource int

const (
	RequestSourceIntake RequestSource = 0
	RequestSourceManual RequestSource = 1
)

func (s RequestSource) String() string {
	names := [...]string{"intake", "manual"}
	if int(s) < 0 || int(s) >= len(names) {
		return "intake"
	}
	return names[s]
}

func (s RequestSource) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *RequestSource) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = RequestSource(i)
		return nil
	}
	switch str {
	case "intake":
		*s = RequestSourceIntake
	case "manual":
		*s = RequestSourceManual
	}
	return nil
}

func (s RequestSource) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *RequestSource) Scan(value interface{}) error {
	if value == nil {
		*s = RequestSourceIntake
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = RequestSource(v)
	case int:
		*s = RequestSource(v)
	}
	return nil
}
