package paramstore

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSSM struct {
	getOut  *ssm.GetParameterOutput
	getErr  error
	lastGet *ssm.GetParameterInput

	batchOut  *ssm.GetParametersOutput
	batchErr  error
	lastBatch *ssm.GetParametersInput
}

func (f *fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.lastGet = in
	return f.getOut, f.getErr
}

func (f *fakeSSM) GetParameters(_ context.Context, in *ssm.GetParametersInput, _ ...func(*ssm.Options)) (*ssm.GetParametersOutput, error) {
	f.lastBatch = in
	return f.batchOut, f.batchErr
}

func param(name, value string) types.Parameter {
	return types.Parameter{Name: aws.String(name), Value: aws.String(value)}
}

func TestNew_RequiresAPI(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestGetParameter_HappyPath(t *testing.T) {
	api := &fakeSSM{getOut: &ssm.GetParameterOutput{
		Parameter: &types.Parameter{Value: aws.String("the value")},
	}}
	c, err := New(api)
	require.NoError(t, err)

	v, err := c.GetParameter(context.Background(), " /p/config/advisor_model ")
	require.NoError(t, err)
	assert.Equal(t, "the value", v)
	assert.Equal(t, "/p/config/advisor_model", *api.lastGet.Name)
	assert.True(t, *api.lastGet.WithDecryption)
}

func TestGetParameter_EmptyName(t *testing.T) {
	c, err := New(&fakeSSM{})
	require.NoError(t, err)

	_, err = c.GetParameter(context.Background(), "   ")
	require.Error(t, err)
}

func TestGetParameter_APIError(t *testing.T) {
	c, err := New(&fakeSSM{getErr: errors.New("AccessDeniedException")})
	require.NoError(t, err)

	_, err = c.GetParameter(context.Background(), "/p/x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/p/x")
}

func TestGetParameter_MissingValue(t *testing.T) {
	c, err := New(&fakeSSM{getOut: &ssm.GetParameterOutput{}})
	require.NoError(t, err)

	_, err = c.GetParameter(context.Background(), "/p/x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing value")
}

func TestGetParameters_HappyPath(t *testing.T) {
	api := &fakeSSM{batchOut: &ssm.GetParametersOutput{
		Parameters: []types.Parameter{
			param("/p/config/advisor_model", "gpt-4o"),
			param("/p/config/evaluator_model", "gpt-4o-mini"),
		},
	}}
	c, err := New(api)
	require.NoError(t, err)

	values, err := c.GetParameters(context.Background(), []string{"/p/config/advisor_model", "/p/config/evaluator_model"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"/p/config/advisor_model":   "gpt-4o",
		"/p/config/evaluator_model": "gpt-4o-mini",
	}, values)
	assert.True(t, *api.lastBatch.WithDecryption)
}

func TestGetParameters_EmptyNames(t *testing.T) {
	c, err := New(&fakeSSM{})
	require.NoError(t, err)

	_, err = c.GetParameters(context.Background(), nil)
	require.Error(t, err)
}

func TestGetParameters_InvalidParametersFailTheBatch(t *testing.T) {
	api := &fakeSSM{batchOut: &ssm.GetParametersOutput{
		Parameters:        []types.Parameter{param("/p/a", "x")},
		InvalidParameters: []string{"/p/missing"},
	}}
	c, err := New(api)
	require.NoError(t, err)

	_, err = c.GetParameters(context.Background(), []string{"/p/a", "/p/missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/p/missing")
}

func TestGetParameters_MissingFromResponse(t *testing.T) {
	api := &fakeSSM{batchOut: &ssm.GetParametersOutput{
		Parameters: []types.Parameter{param("/p/a", "x")},
	}}
	c, err := New(api)
	require.NoError(t, err)

	_, err = c.GetParameters(context.Background(), []string{"/p/a", "/p/b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/p/b")
}

func TestGetParameters_APIError(t *testing.T) {
	c, err := New(&fakeSSM{batchErr: errors.New("ThrottlingException")})
	require.NoError(t, err)

	_, err = c.GetParameters(context.Background(), []string{"/p/a"})
	require.Error(t, err)
}
