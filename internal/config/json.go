// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations, so the optional config file can spell timeouts
// as "15s" instead of nanosecond integers.
type StructuredJSONConfig struct {
	Crypto struct {
		RequestSalt   string `json:"request_salt"`
		ResponseSalt  string `json:"response_salt"`
		SM2PublicKey  string `json:"sm2_public_key"`
		SM2PrivateKey string `json:"sm2_private_key"`
	} `json:"crypto,omitempty"`

	Vendor struct {
		BaseURL      string `json:"base_url"`
		PathPrefix   string `json:"path_prefix"`
		ActivityID   string `json:"activity_id"`
		CardTypeCode string `json:"card_type_code"`

		Endpoints struct {
			Decrypt      string `json:"decrypt"`
			Coupon       string `json:"coupon"`
			OrderInfo    string `json:"order_info"`
			BespeakList  string `json:"bespeak_list"`
			UserInfo     string `json:"user_info"`
			SMSSend      string `json:"sms_send"`
			SMSVerify    string `json:"sms_verify"`
			CancelOrder  string `json:"cancel_order"`
			ChangeLounge string `json:"change_lounge"`
		} `json:"endpoints,omitempty"`

		Timeouts struct {
			Default  Duration `json:"default"`
			Coupon   Duration `json:"coupon"`
			UserInfo Duration `json:"user_info"`
			Order    Duration `json:"order"`
		} `json:"timeouts,omitempty"`
	} `json:"vendor,omitempty"`

	Tokens struct {
		TTL Duration `json:"ttl"`
	} `json:"tokens,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Crypto: Crypto{
			RequestSalt:   jsonCfg.Crypto.RequestSalt,
			ResponseSalt:  jsonCfg.Crypto.ResponseSalt,
			SM2PublicKey:  jsonCfg.Crypto.SM2PublicKey,
			SM2PrivateKey: jsonCfg.Crypto.SM2PrivateKey,
		},
		Vendor: Vendor{
			BaseURL:      jsonCfg.Vendor.BaseURL,
			PathPrefix:   jsonCfg.Vendor.PathPrefix,
			ActivityID:   jsonCfg.Vendor.ActivityID,
			CardTypeCode: jsonCfg.Vendor.CardTypeCode,
			Endpoints: Endpoints{
				Decrypt:      jsonCfg.Vendor.Endpoints.Decrypt,
				Coupon:       jsonCfg.Vendor.Endpoints.Coupon,
				OrderInfo:    jsonCfg.Vendor.Endpoints.OrderInfo,
				BespeakList:  jsonCfg.Vendor.Endpoints.BespeakList,
				UserInfo:     jsonCfg.Vendor.Endpoints.UserInfo,
				SMSSend:      jsonCfg.Vendor.Endpoints.SMSSend,
				SMSVerify:    jsonCfg.Vendor.Endpoints.SMSVerify,
				CancelOrder:  jsonCfg.Vendor.Endpoints.CancelOrder,
				ChangeLounge: jsonCfg.Vendor.Endpoints.ChangeLounge,
			},
			Timeouts: Timeouts{
				Default:  time.Duration(jsonCfg.Vendor.Timeouts.Default),
				Coupon:   time.Duration(jsonCfg.Vendor.Timeouts.Coupon),
				UserInfo: time.Duration(jsonCfg.Vendor.Timeouts.UserInfo),
				Order:    time.Duration(jsonCfg.Vendor.Timeouts.Order),
			},
		},
		Tokens: Tokens{
			TTL: time.Duration(jsonCfg.Tokens.TTL),
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
