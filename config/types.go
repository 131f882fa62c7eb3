package config

type Config struct {
	Debug   bool    `mapstructure:"debug"`
	Server  Server  `mapstructure:"server"`
	Storage Storage `mapstructure:"storage"`
}

type Server struct {
	Address   string       `mapstructure:"address" validate:"required,hostname|ip"`
	Port      int          `mapstructure:"port" validate:"required,min=1,max=65535"`
	PublicUrl string       `mapstructure:"public_url" validate:"omitempty,url"`
	Limits    ServerLimits `mapstructure:"limits"`
}

type ServerLimits struct {
	MaxFileSize uint `mapstructure:"max_file_size" validate:"required"`
}

type Storage struct {
	Strategy   string              `mapstructure:"strategy" validate:"required,oneof=filesystem s3 noop"`
	Filesystem *FilesystemStrategy `mapstructure:"filesystem" validate:"required_if=Strategy filesystem"`
	S3         *S3Strategy         `mapstructure:"s3" validate:"required_if=Strategy s3"`
}

type FilesystemStrategy struct {
	Path string `mapstructure:"path" validate:"required,abspath"`
}

type S3Strategy struct {
	AccessKeyId string `mapstructure:"access_key_id" validate:"required"`
	SecretKeyId string `mapstructure:"secret_key_id" validate:"required"`
	Region      string `mapstructure:"region"`
	Bucket      string `mapstructure:"bucket" validate:"required"`
	Endpoint    string `mapstructure:"endpoint"`
	PublicUrl   string `mapstructure:"public_url" validate:"omitempty,url"`
}
