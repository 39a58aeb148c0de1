package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// DefaultExpectedAccount is the only AWS account the migration may run against
const DefaultExpectedAccount = "123456789012"

var (
	// ErrNoIdentity is returned when STS reports no account for the caller
	ErrNoIdentity = errors.New("no active AWS identity: log in with the AWS CLI first")

	// ErrAccountMismatch is returned when the caller is in a different account
	ErrAccountMismatch = errors.New("active AWS identity belongs to the wrong account")
)

// STSAPI is the part of the STS client the identity gate needs
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Identity is the resolved caller identity
type Identity struct {
	Account string
	Arn     string
	UserID  string
}

type cloudConfig struct {
	region  string
	profile string
}

// Option customises how the AWS configuration is loaded
type Option func(*cloudConfig)

// WithRegion pins the STS region
func WithRegion(region string) Option {
	return func(cc *cloudConfig) {
		cc.region = region
	}
}

// WithProfile selects a shared config profile
func WithProfile(profile string) Option {
	return func(cc *cloudConfig) {
		cc.profile = profile
	}
}

// NewSTSClient builds an STS client from the default credential chain
func NewSTSClient(ctx context.Context, opts ...Option) (*sts.Client, error) {
	cc := &cloudConfig{}
	for _, opt := range opts {
		opt(cc)
	}

	var loadOpts []func(*config.LoadOptions) error
	if cc.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cc.region))
	}
	if cc.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(cc.profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}

	return sts.NewFromConfig(cfg), nil
}

// Verify resolves the caller identity and checks it belongs to expectedAccount
func Verify(ctx context.Context, api STSAPI, expectedAccount string) (*Identity, error) {
	out, err := api.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoIdentity, err)
	}

	id := &Identity{
		Account: aws.ToString(out.Account),
		Arn:     aws.ToString(out.Arn),
		UserID:  aws.ToString(out.UserId),
	}
	slog.Debug("aws caller identity", "account", id.Account, "arn", id.Arn)

	if id.Account == "" {
		return nil, ErrNoIdentity
	}
	if id.Account != expectedAccount {
		return nil, fmt.Errorf("%w: got %s (%s), expected %s", ErrAccountMismatch, id.Account, id.Arn, expectedAccount)
	}

	return id, nil
}
