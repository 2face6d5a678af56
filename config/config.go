package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	SecretKey struct {
		Service string `json:"service" yaml:"service"`
	} `json:"secretKey" yaml:"secretKey"`

	// GiftCard configuration for the gift card ledger
	GiftCard *GiftCardConfig `json:"giftCard" yaml:"giftCard"`

	// Loyalty configuration for the loyalty engine
	Loyalty *LoyaltyConfig `json:"loyalty" yaml:"loyalty"`

	// Referral configuration for the referral engine
	Referral *ReferralConfig `json:"referral" yaml:"referral"`

	// PubSub configuration for event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// QRCode configuration for gift card QR codes
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// GiftCardConfig defines gift card issuance bounds and lifetimes
type GiftCardConfig struct {
	// Purchasable preset amounts
	PresetAmounts []float64 `json:"presetAmounts" yaml:"presetAmounts"`

	// Bounds for custom amounts outside the preset list
	MinCustomAmount float64 `json:"minCustomAmount" yaml:"minCustomAmount"`
	MaxCustomAmount float64 `json:"maxCustomAmount" yaml:"maxCustomAmount"`

	// Days until a newly issued card expires. 0 means cards never expire.
	ExpiresInDays int `json:"expiresInDays" yaml:"expiresInDays"`

	// Length of the flat (unformatted) gift card code
	CodeLength int `json:"codeLength" yaml:"codeLength"`
}

// LoyaltyConfig defines point earn and redemption rates
type LoyaltyConfig struct {
	// Points earned per dollar spent, before the tier multiplier
	PointsPerDollar float64 `json:"pointsPerDollar" yaml:"pointsPerDollar"`

	// Points needed for one dollar of discount (100 points = $1)
	PointsPerDollarDiscount int `json:"pointsPerDollarDiscount" yaml:"pointsPerDollarDiscount"`

	// One-time bonus amounts
	SignupBonusPoints int `json:"signupBonusPoints" yaml:"signupBonusPoints"`
	ReviewBonusPoints int `json:"reviewBonusPoints" yaml:"reviewBonusPoints"`

	// Days until earned points expire. 0 means points never expire.
	PointsExpireInDays int `json:"pointsExpireInDays" yaml:"pointsExpireInDays"`
}

// ReferralConfig defines referral code issuance and rewards
type ReferralConfig struct {
	// Fixed prefix for fully random referral codes
	CodePrefix string `json:"codePrefix" yaml:"codePrefix"`

	// Discount percent granted to the referee's first order
	DefaultDiscountPercent float64 `json:"defaultDiscountPercent" yaml:"defaultDiscountPercent"`

	// Maximum uses per code. 0 means unlimited.
	DefaultUsageLimit int `json:"defaultUsageLimit" yaml:"defaultUsageLimit"`

	// Points the referrer earns when a referral is rewarded
	RewardPoints int `json:"rewardPoints" yaml:"rewardPoints"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// QRCodeConfig defines QR code generation configuration
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}

	applyLedgerDefaults(cfg)

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

// applyLedgerDefaults fills in business constants left unset in the YAML so a
// minimal config file still yields a working ledger.
func applyLedgerDefaults(cfg *Config) {
	if cfg.GiftCard == nil {
		cfg.GiftCard = &GiftCardConfig{}
	}
	if len(cfg.GiftCard.PresetAmounts) == 0 {
		cfg.GiftCard.PresetAmounts = []float64{25, 50, 100, 200}
	}
	if cfg.GiftCard.MinCustomAmount <= 0 {
		cfg.GiftCard.MinCustomAmount = 10
	}
	if cfg.GiftCard.MaxCustomAmount <= 0 {
		cfg.GiftCard.MaxCustomAmount = 500
	}
	if cfg.GiftCard.CodeLength <= 0 {
		cfg.GiftCard.CodeLength = 16
	}

	if cfg.Loyalty == nil {
		cfg.Loyalty = &LoyaltyConfig{}
	}
	if cfg.Loyalty.PointsPerDollar <= 0 {
		cfg.Loyalty.PointsPerDollar = 1
	}
	if cfg.Loyalty.PointsPerDollarDiscount <= 0 {
		cfg.Loyalty.PointsPerDollarDiscount = 100
	}
	if cfg.Loyalty.SignupBonusPoints <= 0 {
		cfg.Loyalty.SignupBonusPoints = 100
	}
	if cfg.Loyalty.ReviewBonusPoints <= 0 {
		cfg.Loyalty.ReviewBonusPoints = 25
	}

	if cfg.Referral == nil {
		cfg.Referral = &ReferralConfig{}
	}
	if strings.TrimSpace(cfg.Referral.CodePrefix) == "" {
		cfg.Referral.CodePrefix = "ECO"
	}
	if cfg.Referral.DefaultDiscountPercent <= 0 {
		cfg.Referral.DefaultDiscountPercent = 10
	}
	if cfg.Referral.RewardPoints <= 0 {
		cfg.Referral.RewardPoints = 200
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
// Example: POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, POSTGRES_REPLICAS_0_USERNAME, POSTGRES_REPLICAS_0_PASSWORD
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			// No more replicas or incomplete configuration.
			break
		}

		replica := postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		}

		replicas = append(replicas, replica)
	}

	return replicas
}
