// Package admindef contains the JSON shapes sent to and received from the gateway admin API.
package admindef

import (
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	CollectionServices = "services"
	CollectionRoutes   = "routes"
)

// SchemaValidationSuccessMessage is the message returned by the schema validation endpoint
// for a valid entity.
const SchemaValidationSuccessMessage = "schema validation successful"

// DefaultUpstreamURL is the upstream of every service the tests create or validate.
const DefaultUpstreamURL = "https://www.baidu.com"

// ServiceParams is the request body for creating or validating a service.
type ServiceParams struct {
	Name              string              `json:"name"`
	Tags              []string            `json:"tags"`
	ReadTimeout       ldvalue.OptionalInt `json:"read_timeout"`
	Retries           ldvalue.OptionalInt `json:"retries"`
	ConnectTimeout    ldvalue.OptionalInt `json:"connect_timeout"`
	CACertificates    ldvalue.Value       `json:"ca_certificates"`
	ClientCertificate ldvalue.Value       `json:"client_certificate"`
	WriteTimeout      ldvalue.OptionalInt `json:"write_timeout"`
	Port              int                 `json:"port"`
	URL               string              `json:"url"`
}

// NewServiceParams returns a service body with the fixed upstream settings used by the tests.
func NewServiceParams(name string, tags []string) ServiceParams {
	return ServiceParams{
		Name:              name,
		Tags:              nonNilTags(tags),
		ReadTimeout:       ldvalue.NewOptionalInt(60000),
		Retries:           ldvalue.NewOptionalInt(5),
		ConnectTimeout:    ldvalue.NewOptionalInt(60000),
		CACertificates:    ldvalue.Null(),
		ClientCertificate: ldvalue.Null(),
		WriteTimeout:      ldvalue.NewOptionalInt(60000),
		Port:              443,
		URL:               DefaultUpstreamURL,
	}
}

// ServiceRef is the back-reference from a route to the service it is bound to.
type ServiceRef struct {
	ID string `json:"id"`
}

// RouteParams is the request body for creating a route.
type RouteParams struct {
	Name                    string        `json:"name"`
	Protocols               []string      `json:"protocols"`
	HTTPSRedirectStatusCode int           `json:"https_redirect_status_code"`
	StripPath               bool          `json:"strip_path"`
	PreserveHost            bool          `json:"preserve_host"`
	RequestBuffering        bool          `json:"request_buffering"`
	ResponseBuffering       bool          `json:"response_buffering"`
	Tags                    []string      `json:"tags"`
	Service                 ServiceRef    `json:"service"`
	Methods                 ldvalue.Value `json:"methods"`
	Hosts                   ldvalue.Value `json:"hosts"`
	Paths                   []string      `json:"paths"`
	Headers                 ldvalue.Value `json:"headers"`
	RegexPriority           int           `json:"regex_priority"`
	PathHandling            string        `json:"path_handling"`
	Sources                 ldvalue.Value `json:"sources"`
	Destinations            ldvalue.Value `json:"destinations"`
	SNIs                    ldvalue.Value `json:"snis"`
}

// NewRouteParams returns a route body bound to the given service, with the fixed routing
// flags used by the tests.
func NewRouteParams(name string, tags, paths []string, serviceID string) RouteParams {
	return RouteParams{
		Name:                    name,
		Protocols:               []string{"http", "https"},
		HTTPSRedirectStatusCode: 426,
		StripPath:               true,
		PreserveHost:            false,
		RequestBuffering:        true,
		ResponseBuffering:       true,
		Tags:                    nonNilTags(tags),
		Service:                 ServiceRef{ID: serviceID},
		Methods:                 ldvalue.Null(),
		Hosts:                   ldvalue.Null(),
		Paths:                   paths,
		Headers:                 ldvalue.Null(),
		RegexPriority:           0,
		PathHandling:            "v0",
		Sources:                 ldvalue.Null(),
		Destinations:            ldvalue.Null(),
		SNIs:                    ldvalue.Null(),
	}
}

// ListParams are the query parameters for listing a collection. Zero values are omitted.
type ListParams struct {
	SortDesc bool
	SortBy   string
	Size     int
	Name     string
	Offset   string
}

// Resource is the subset of a service or route returned by the admin API that the tests
// inspect. Service is only set for routes.
type Resource struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Tags      []string    `json:"tags"`
	Paths     []string    `json:"paths,omitempty"`
	Service   *ServiceRef `json:"service,omitempty"`
	CreatedAt int64       `json:"created_at,omitempty"`
}

// Page is one page of a collection listing.
type Page struct {
	Data   []Resource `json:"data"`
	Offset string     `json:"offset,omitempty"`
}

// TagsEqual reports whether two tag lists contain the same elements in the same order.
// A nil list and an empty list are equal, since the admin API may return null for no tags.
func TagsEqual(expected, actual []string) bool {
	if len(expected) != len(actual) {
		return false
	}
	for i := range expected {
		if expected[i] != actual[i] {
			return false
		}
	}
	return true
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
