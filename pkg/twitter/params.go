package twitter

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Query parameter names understood by the archive endpoints
const (
	ParamQuery       = "query"
	ParamStartTime   = "start_time"
	ParamEndTime     = "end_time"
	ParamSinceID     = "since_id"
	ParamUntilID     = "until_id"
	ParamMaxResults  = "max_results"
	ParamNextToken   = "next_token"
	ParamGranularity = "granularity"
	ParamExpansions  = "expansions"
	ParamTweetFields = "tweet.fields"
	ParamMediaFields = "media.fields"
	ParamPollFields  = "poll.fields"
	ParamPlaceFields = "place.fields"
	ParamUserFields  = "user.fields"
)

// FilterParams returns a copy of params without absent entries: untyped
// nil values and nil pointers, maps, slices or interfaces. Every other
// value, including empty strings and zeros, passes through unchanged.
func FilterParams(params map[string]any) map[string]any {
	filtered := make(map[string]any, len(params))
	for key, value := range params {
		if isAbsent(value) {
			continue
		}
		filtered[key] = value
	}
	return filtered
}

func isAbsent(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// EncodeParams renders filtered params as URL query values. Pointers are
// dereferenced and string slices are joined with commas, the list syntax
// the API expects for field selectors.
func EncodeParams(params map[string]any) url.Values {
	values := url.Values{}
	for key, value := range FilterParams(params) {
		values.Set(key, formatValue(value))
	}
	return values
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case *string:
		return *v
	case int:
		return strconv.Itoa(v)
	case *int:
		return strconv.Itoa(*v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []string:
		return strings.Join(v, ",")
	case fmt.Stringer:
		return v.String()
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		return formatValue(rv.Elem().Interface())
	}
	return fmt.Sprint(value)
}
