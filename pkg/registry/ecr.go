package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecrpublic"
	ecrtypes "github.com/aws/aws-sdk-go-v2/service/ecrpublic/types"
	"github.com/aws/smithy-go"
)

// ecrPublicAPI captures the subset of the ECR Public API the client uses,
// so tests can substitute a fake for the AWS SDK client.
type ecrPublicAPI interface {
	DescribeRegistries(ctx context.Context, params *ecrpublic.DescribeRegistriesInput, optFns ...func(*ecrpublic.Options)) (*ecrpublic.DescribeRegistriesOutput, error)
	GetRepositoryCatalogData(ctx context.Context, params *ecrpublic.GetRepositoryCatalogDataInput, optFns ...func(*ecrpublic.Options)) (*ecrpublic.GetRepositoryCatalogDataOutput, error)
	PutRepositoryCatalogData(ctx context.Context, params *ecrpublic.PutRepositoryCatalogDataInput, optFns ...func(*ecrpublic.Options)) (*ecrpublic.PutRepositoryCatalogDataOutput, error)
}

// ECRPublicClient implements the Client interface for the AWS ECR Public
// gallery. The repository "about" text is the gallery's description field,
// carried by the repository catalog data. The repository owner in the
// "owner/name" identifier is the gallery alias; within the authenticated
// account the repository is addressed by name alone.
type ECRPublicClient struct {
	api ecrPublicAPI
}

// NewECRPublicClient creates an ECR Public client using the AWS SDK
// default credential chain. ECR Public only accepts requests in us-east-1.
func NewECRPublicClient(ctx context.Context, region string) (*ECRPublicClient, error) {
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, NewError(ErrorTypeAuth, "failed to load AWS configuration", err)
	}

	return &ECRPublicClient{api: ecrpublic.NewFromConfig(cfg)}, nil
}

// NewECRPublicClientWithAPI creates an ECR Public client with a custom API
// implementation (for testing)
func NewECRPublicClientWithAPI(api ecrPublicAPI) *ECRPublicClient {
	return &ECRPublicClient{api: api}
}

// Authenticate verifies the resolved AWS credentials by describing the registry
func (c *ECRPublicClient) Authenticate(ctx context.Context) error {
	_, err := c.api.DescribeRegistries(ctx, &ecrpublic.DescribeRegistriesInput{})
	if err != nil {
		return wrapECRError(err, "ECR Public registry")
	}
	return nil
}

// GetDescription returns the repository's current "about" text
func (c *ECRPublicClient) GetDescription(ctx context.Context, repository Repository) (string, error) {
	out, err := c.api.GetRepositoryCatalogData(ctx, &ecrpublic.GetRepositoryCatalogDataInput{
		RepositoryName: aws.String(repository.Name),
	})
	if err != nil {
		return "", wrapECRError(err, fmt.Sprintf("repository %s", repository))
	}

	if out.CatalogData == nil || out.CatalogData.AboutText == nil {
		return "", nil
	}
	return *out.CatalogData.AboutText, nil
}

// UpdateDescription sets the repository's "about" text
func (c *ECRPublicClient) UpdateDescription(ctx context.Context, repository Repository, text string) error {
	if len(text) > ECRPublicAboutLimit {
		return NewError(ErrorTypeValidation,
			fmt.Sprintf("description is %d bytes, ECR Public allows at most %d", len(text), ECRPublicAboutLimit), nil)
	}

	_, err := c.api.PutRepositoryCatalogData(ctx, &ecrpublic.PutRepositoryCatalogDataInput{
		RepositoryName: aws.String(repository.Name),
		CatalogData: &ecrtypes.RepositoryCatalogDataInput{
			AboutText: aws.String(text),
		},
	})
	if err != nil {
		return wrapECRError(err, fmt.Sprintf("repository %s", repository))
	}
	return nil
}

// wrapECRError converts AWS SDK errors into the registry taxonomy
func wrapECRError(err error, resource string) *Error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		baseErr := &Error{Cause: err, Resource: resource}

		switch apiErr.ErrorCode() {
		case "RepositoryNotFoundException":
			baseErr.Type = ErrorTypeNotFound
			baseErr.Message = "repository not found in the ECR Public registry"
		case "UnauthorizedException", "UnrecognizedClientException", "InvalidSignatureException":
			baseErr.Type = ErrorTypeAuth
			baseErr.Message = "AWS credentials were rejected"
		case "AccessDeniedException":
			baseErr.Type = ErrorTypePermission
			baseErr.Message = "AWS credentials lack permission for ECR Public catalog data"
		case "TooManyRequestsException":
			baseErr.Type = ErrorTypeRateLimit
			baseErr.Message = "ECR Public rate limit exceeded"
			baseErr.Retryable = true
		case "ServerException":
			baseErr.Type = ErrorTypeUpload
			baseErr.Message = "ECR Public is temporarily unavailable"
			baseErr.Retryable = true
		default:
			baseErr.Type = ErrorTypeUpload
			baseErr.Message = apiErr.ErrorMessage()
		}

		return baseErr
	}

	return WrapError(err, resource)
}

// Ensure ECRPublicClient implements the interface
var _ Client = (*ECRPublicClient)(nil)
