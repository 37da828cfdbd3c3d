// server/config/config.go
package config

import (
	"github.com/spf13/viper"
)

// --- Các struct con, phản ánh cấu trúc của YAML ---

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"secret"`
	Expiration string `mapstructure:"expiration"` // Go duration string, e.g. "24h"
}

type S3Config struct {
	Bucket           string `mapstructure:"bucket"`
	Region           string `mapstructure:"region"`
	AccessKeyID      string `mapstructure:"accessKeyID"`
	SecretAccessKey  string `mapstructure:"secretAccessKey"`
	CloudFrontDomain string `mapstructure:"cloudFrontDomain"`
}

type NetSuiteConfig struct {
	// ValidationURL là endpoint Lambda xác thực đơn hàng.
	// Để trống khi dev: mọi đơn hàng sẽ được chấp nhận (mock).
	ValidationURL string `mapstructure:"validationURL"`
}

type WarehouseConfig struct {
	// Timezone của kho; mọi giờ mở cửa được hiểu theo múi giờ này.
	Timezone string `mapstructure:"timezone"`
}

type QueueConfig struct {
	// PriorityOrder: "fifo" (mặc định) hoặc "lifo" - thứ tự trong khối ưu tiên.
	PriorityOrder string `mapstructure:"priorityOrder"`
}

// --- Struct Config chính, bao gồm tất cả các struct con ---

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	S3        S3Config        `mapstructure:"s3"`
	NetSuite  NetSuiteConfig  `mapstructure:"netsuite"`
	Warehouse WarehouseConfig `mapstructure:"warehouse"`
	Queue     QueueConfig     `mapstructure:"queue"`
}

// LoadConfig đọc cấu hình từ file và ghi đè bằng các biến môi trường.
func LoadConfig(path string) (config Config, err error) {
	// Thiết lập đường dẫn và tên file config
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Bật tính năng tự động đọc biến môi trường
	viper.AutomaticEnv()

	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("mongo.dbName", "MONGO_DBNAME")
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("jwt.expiration", "JWT_EXPIRATION")
	viper.BindEnv("s3.bucket", "S3_BUCKET")
	viper.BindEnv("s3.region", "S3_REGION")
	viper.BindEnv("s3.accessKeyID", "S3_ACCESS_KEY_ID")
	viper.BindEnv("s3.secretAccessKey", "S3_SECRET_ACCESS_KEY")
	viper.BindEnv("s3.cloudFrontDomain", "S3_CLOUDFRONT_DOMAIN")
	viper.BindEnv("netsuite.validationURL", "NETSUITE_VALIDATION_URL")
	viper.BindEnv("warehouse.timezone", "WAREHOUSE_TIMEZONE")
	viper.BindEnv("queue.priorityOrder", "QUEUE_PRIORITY_ORDER")

	// Giá trị mặc định
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("warehouse.timezone", "America/Los_Angeles")
	viper.SetDefault("queue.priorityOrder", "fifo")

	// Đọc file config.yaml
	// Nếu file không tồn tại, Viper sẽ chỉ sử dụng các biến môi trường.
	err = viper.ReadInConfig()
	if err != nil {
		// Chỉ trả về lỗi nếu đó không phải là lỗi "không tìm thấy file"
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	// Unmarshal toàn bộ cấu hình đã được kết hợp (từ file và env) vào struct Config
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return
}
