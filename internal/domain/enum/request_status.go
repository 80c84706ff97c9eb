package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// RequestStatus represents the lifecycle state of a custom-production request
type RequestStatus int

const (
	RequestStatusPending  RequestStatus = 0
	RequestStatusReview   RequestStatus = 1
	RequestStatusApproved RequestStatus = 2
	RequestStatusRejected RequestStatus = 3
	RequestStatusArchived RequestStatus = 4
)

func (s RequestStatus) String() string {
	names := [...]string{"pending", "review", "approved", "rejected", "archived"}
	if int(s) < 0 || int(s) >= len(names) {
		return "pending"
	}
	return names[s]
}

func (s RequestStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *RequestStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = RequestStatus(i)
		return nil
	}
	switch str {
	case "pending":
		*s = RequestStatusPending
	case "review":
		*s = RequestStatusReview
	case "approved":
		*s = RequestStatusApproved
	case "rejected":
		*s = RequestStatusRejected
	case "archived":
		*s = RequestStatusArchived
	}
	return nil
}

func (s RequestStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *RequestStatus) Scan(value interface{}) error {
	if value == nil {
		*s = RequestStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = RequestStatus(v)
	case int:
		*s = RequestStatus(v)
	}
	return nil
}
