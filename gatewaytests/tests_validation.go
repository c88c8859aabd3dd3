package gatewaytests

import (
	"net/http"

	"github.com/gatewayadmin/admin-contract-tests/admindef"
	"github.com/gatewayadmin/admin-contract-tests/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoServiceValidationTests(t *T) {
	for _, tc := range t.Cases().ValidateService {
		tc := tc
		t.Run(tc.Name, func(t *T) {
			resp := t.Request(client.Request{
				Method:          http.MethodPost,
				Path:            "/schemas/" + admindef.CollectionServices + "/validate",
				Body:            admindef.NewServiceParams(tc.Name, tc.Tags),
				AcceptAnyStatus: true,
			})
			require.Equal(t, http.StatusOK, resp.Status, "validation response: %s", string(resp.Raw))
			assert.Equal(t, admindef.SchemaValidationSuccessMessage, resp.Body.GetByKey("message").StringValue())
		})
	}
}
