package metadata_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfcore/salesforce/credentials"
	"github.com/sfcore/salesforce/internal/session"
	"github.com/sfcore/salesforce/internal/transport"
	"github.com/sfcore/salesforce/metadata"
	"github.com/sfcore/salesforce/sferrors"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *metadata.Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tr := transport.New(transport.Config{HTTPClient: srv.Client(), Credentials: credentials.NewStaticCredentials("tok", srv.URL)})
	return metadata.NewService(session.New(tr, srv.URL, "59.0"))
}

func soapResponse(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/"><soapenv:Body>` + body + `</soapenv:Body></soapenv:Envelope>`
}

func TestService_Deploy_ReturnsAsyncID(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/services/Soap/m/59.0", r.URL.Path)
		assert.Equal(t, "text/xml; charset=UTF-8", r.Header.Get("Content-Type"))
		w.Write([]byte(soapResponse(`<deployResponse><result><id>0Af123</id></result></deployResponse>`)))
	})
	result, err := svc.Deploy(context.Background(), []byte("zip-bytes"), true, false, false)
	require.NoError(t, err)
	assert.Equal(t, "0Af123", result.ID)
}

func TestService_CheckDeployStatus_ParsesFullResult(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(soapResponse(`<checkDeployStatusResponse><result>
			<id>0Af123</id>
			<done>true</done>
			<status>Succeeded</status>
			<success>true</success>
			<numberComponentsDeployed>2</numberComponentsDeployed>
			<numberComponentsTotal>2</numberComponentsTotal>
			<componentSuccesses><componentType>ApexClass</componentType><fullName>Foo</fullName><id>01p000</id></componentSuccesses>
		</result></checkDeployStatusResponse>`)))
	})
	result, err := svc.CheckDeployStatus(context.Background(), "0Af123", true)
	require.NoError(t, err)
	assert.True(t, result.Done)
	assert.True(t, result.Success)
	assert.Equal(t, metadata.DeploySucceeded, result.Status)
	require.Len(t, result.ComponentSuccesses, 1)
	assert.Equal(t, "Foo", result.ComponentSuccesses[0].FullName)
	assert.NoError(t, result.AsError())
}

func TestDeployResult_AsError_ReportsComponentFailures(t *testing.T) {
	result := &metadata.DeployResult{
		Status:  metadata.DeployFailed,
		Success: false,
		ComponentFailures: []metadata.ComponentFailure{
			{FullName: "Foo", Problem: "invalid field reference"},
		},
	}
	err := result.AsError()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Foo")
	assert.Contains(t, err.Error(), "invalid field reference")
}

func TestService_CheckDeployStatus_DetectsSoapFault(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(soapResponse(`<soapenv:Fault><faultcode>sf:INVALID_SESSION_ID</faultcode><faultstring>Invalid Session ID found</faultstring></soapenv:Fault>`)))
	})
	_, err := svc.CheckDeployStatus(context.Background(), "0Af123", false)
	require.Error(t, err)
	var fault *sferrors.SoapFaultError
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "sf:INVALID_SESSION_ID", fault.Code)
}

func TestService_Retrieve_ReturnsAsyncID(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(soapResponse(`<retrieveResponse><result><id>09S123</id></result></retrieveResponse>`)))
	})
	result, err := svc.Retrieve(context.Background(), "59.0", map[string][]string{"ApexClass": {"Foo"}}, true)
	require.NoError(t, err)
	assert.Equal(t, "09S123", result.ID)
}

func TestService_CheckRetrieveStatus_DecodesZipAndFileProperties(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("fake-zip-contents"))
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(soapResponse(`<checkRetrieveStatusResponse><result>
			<id>09S123</id>
			<done>true</done>
			<status>Succeeded</status>
			<success>true</success>
			<zipFile>` + encoded + `</zipFile>
			<fileProperties><type>ApexClass</type><fullName>Foo</fullName></fileProperties>
		</result></checkRetrieveStatusResponse>`)))
	})
	result, err := svc.CheckRetrieveStatus(context.Background(), "09S123", true)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-zip-contents"), result.ZipFile)
	require.Len(t, result.FileProperties, 1)
	assert.Equal(t, "Foo", result.FileProperties[0].FullName)
}

func TestService_ListMetadata(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(soapResponse(`<listMetadataResponse><result><fullName>Foo</fullName><type>ApexClass</type></result></listMetadataResponse>`)))
	})
	records, err := svc.ListMetadata(context.Background(), []metadata.ListMetadataQuery{{Type: "ApexClass"}}, "59.0")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Foo", records[0].FullName)
}

func TestService_DescribeMetadata(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(soapResponse(`<describeMetadataResponse><result>
			<organizationNamespace>myns</organizationNamespace>
			<metadataObjects><xmlName>ApexClass</xmlName><directoryName>classes</directoryName><suffix>cls</suffix></metadataObjects>
		</result></describeMetadataResponse>`)))
	})
	result, err := svc.DescribeMetadata(context.Background(), "59.0")
	require.NoError(t, err)
	assert.Equal(t, "myns", result.OrganizationNamespace)
	require.Len(t, result.MetadataObjects, 1)
	assert.Equal(t, "classes", result.MetadataObjects[0].DirectoryName)
}

func TestService_DescribeValueType_ParsesNestedFields(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(soapResponse(`<describeValueTypeResponse><result>
			<valueTypeFields>
				<name>outer</name>
				<soapType>string</soapType>
				<valueTypeFields><name>inner</name><soapType>int</soapType></valueTypeFields>
			</valueTypeFields>
		</result></describeValueTypeResponse>`)))
	})
	result, err := svc.DescribeValueType(context.Background(), "CustomObject")
	require.NoError(t, err)
	require.Len(t, result.ValueTypeFields, 1)
	assert.Equal(t, "outer", result.ValueTypeFields[0].Name)
	require.Len(t, result.ValueTypeFields[0].Fields, 1)
	assert.Equal(t, "inner", result.ValueTypeFields[0].Fields[0].Name)
}

func TestService_CreateMetadata_RejectsOverBatchLimit(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not make a request when over the batch limit")
	})
	components := make([]metadata.Component, 11)
	_, err := svc.CreateMetadata(context.Background(), components)
	require.Error(t, err)
}

func TestService_CreateMetadata_ParsesSaveResults(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(soapResponse(`<createMetadataResponse><result><fullName>Foo</fullName><success>true</success></result></createMetadataResponse>`)))
	})
	results, err := svc.CreateMetadata(context.Background(), []metadata.Component{
		{Type: "ApexClass", FullName: "Foo", Fields: map[string]interface{}{"apiVersion": "59.0"}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
}

func TestService_CreateMetadata_ParsesFieldErrors(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(soapResponse(`<createMetadataResponse><result>
			<fullName>Foo</fullName><success>false</success>
			<errors><statusCode>DUPLICATE_VALUE</statusCode><message>duplicate</message><fields>FullName</fields></errors>
		</result></createMetadataResponse>`)))
	})
	results, err := svc.CreateMetadata(context.Background(), []metadata.Component{{Type: "ApexClass", FullName: "Foo"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	require.Len(t, results[0].Errors, 1)
	assert.Equal(t, "DUPLICATE_VALUE", results[0].Errors[0].StatusCode)
}

func TestService_UpsertMetadata(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(soapResponse(`<upsertMetadataResponse><result><fullName>Foo</fullName><success>true</success><created>true</created></result></upsertMetadataResponse>`)))
	})
	results, err := svc.UpsertMetadata(context.Background(), []metadata.Component{{Type: "ApexClass", FullName: "Foo"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Created)
}

func TestService_DeleteMetadata(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(soapResponse(`<deleteMetadataResponse><result><fullName>Foo</fullName><success>true</success></result></deleteMetadataResponse>`)))
	})
	results, err := svc.DeleteMetadata(context.Background(), "ApexClass", []string{"Foo"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
}

func TestService_RenameMetadata(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(soapResponse(`<renameMetadataResponse><result>true</result></renameMetadataResponse>`)))
	})
	ok, err := svc.RenameMetadata(context.Background(), "ApexClass", "Foo", "Bar")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_DeployAndWait_PollsUntilDone(t *testing.T) {
	calls := 0
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(soapResponse(`<deployResponse><result><id>0Af123</id></result></deployResponse>`)))
			return
		}
		w.Write([]byte(soapResponse(`<checkDeployStatusResponse><result><id>0Af123</id><done>true</done><status>Succeeded</status><success>true</success></result></checkDeployStatusResponse>`)))
	})
	result, err := svc.DeployAndWait(context.Background(), []byte("zip"), false, false, false, metadata.PollOptions{Interval: 1, MaxWait: 0})
	require.NoError(t, err)
	assert.True(t, result.Done)
}

func TestDeployTyped_BuildsPackageZipAndDeploys(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(soapResponse(`<deployResponse><result><id>0Af123</id></result></deployResponse>`)))
	})
	result, err := svc.DeployTyped(context.Background(), "59.0", metadata.TypedItem{
		Type:     "ApexClass",
		FullName: "Foo",
		Body:     "<ApexClass xmlns=\"http://soap.sforce.com/2006/04/metadata\"><apiVersion>59.0</apiVersion><status>Active</status></ApexClass>",
	}, true, false)
	require.NoError(t, err)
	assert.Equal(t, "0Af123", result.ID)
}

func TestDeployTyped_RejectsUnknownType(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach the server for an unknown type layout")
	})
	_, err := svc.DeployTyped(context.Background(), "59.0", metadata.TypedItem{Type: "NotARealType", FullName: "Foo"}, false, false)
	require.Error(t, err)
}
