package config

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// backendSecrets is the JSON layout of the managed secret. Only the fields
// present in the secret override the file/env configuration.
type backendSecrets struct {
	FTPUsername string `mapstructure:"ftp_username"`
	FTPPassword string `mapstructure:"ftp_password"`
	DBUserName  string `mapstructure:"db_user"`
	DBPassword  string `mapstructure:"db_password"`
}

// LoadSecrets pulls backend credentials from AWS Secrets Manager when
// secrets.aws_secret_id is configured. A missing id is not an error: the
// file/env credentials stay in effect.
func LoadSecrets(ctx context.Context) error {
	secretID := viper.GetString("secrets.aws_secret_id")
	if secretID == "" {
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return err
	}

	client := secretsmanager.NewFromConfig(awsCfg)
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return err
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(aws.ToString(out.SecretString)), &raw); err != nil {
		return err
	}

	var s backendSecrets
	if err := mapstructure.Decode(raw, &s); err != nil {
		return err
	}

	if s.FTPUsername != "" {
		Configuration.FTP.Username = s.FTPUsername
	}
	if s.FTPPassword != "" {
		Configuration.FTP.Password = s.FTPPassword
	}
	if s.DBUserName != "" {
		Configuration.DBUserName = s.DBUserName
	}
	if s.DBPassword != "" {
		Configuration.DBPassword = s.DBPassword
	}

	return nil
}
