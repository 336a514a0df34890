// SPDX-License-Identifier: Apache-2.0

package config

import "time"

// defaultConfig returns the built-in defaults. They mirror the vendor's
// current production deployment so the service runs against it with an empty
// environment; every value can be overridden by env, flag, or JSON file.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Crypto: Crypto{
			RequestSalt:   "REQUESTAUTOSHENGDA",
			ResponseSalt:  "RESPONSEAUTOSHENGDA",
			SM2PublicKey:  "04c86244fa853b05e165bdcb483a5fcf61c3744dd27077b892420eb3ad1f73a40cf8fdffc045c37f376de7534c4ed24654a868be42520a67ada59e740012393eae",
			SM2PrivateKey: "880ca1346b235f3866226e53aacd7c80501a4cdd88c197a8e0f599d5153aeb5a",
		},
		Vendor: Vendor{
			BaseURL:    "https://h5.schengle.com",
			PathPrefix: "/ShengDaHXZHJSJHD",
			ActivityID: "5476",
			Endpoints: Endpoints{
				Decrypt:      "/decrypt",
				Coupon:       "/bespeak/VipHall/getCoupon",
				OrderInfo:    "/bespeak/VipHall/queryH5OrderInfo",
				BespeakList:  "/bespeak/list",
				UserInfo:     "/user/getUserInfo",
				SMSSend:      "/sms/send",
				SMSVerify:    "/sms/verify",
				CancelOrder:  "/bespeak/VipHall/cancelOrder",
				ChangeLounge: "/bespeak/VipHall/change",
			},
			Timeouts: Timeouts{
				Default:  10 * time.Second,
				Coupon:   15 * time.Second,
				UserInfo: 10 * time.Second,
				Order:    15 * time.Second,
			},
		},
		Tokens: Tokens{
			TTL: 5 * time.Minute,
		},
		Storage: Storage{
			DB: DB{
				Driver: "sqlite3",
				DSN:    "lounge.db",
			},
		},
		Server: Server{
			HTTPAddress:    "0.0.0.0:8081",
			RequestTimeout: 60 * time.Second,
		},
	}
}
