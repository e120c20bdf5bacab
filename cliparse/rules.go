// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/MaplrCanada/ss-petitions/petition"
)

// LoadRules reads the petition rules. Defaults come from
// petition.DefaultRules, then the optional rules file, then PETITIONS_*
// environment overrides such as PETITIONS_REQUIRED_SIGNATURES.
func LoadRules(path string) (petition.Rules, error) {
	v := viper.New()

	def := petition.DefaultRules()
	v.SetDefault("min_title_len", def.MinTitleLen)
	v.SetDefault("max_title_len", def.MaxTitleLen)
	v.SetDefault("min_content_len", def.MinContentLen)
	v.SetDefault("max_content_len", def.MaxContentLen)
	v.SetDefault("required_signatures", def.RequiredSignatures)
	v.SetDefault("categories", def.Categories)
	v.SetDefault("allow_anonymous", def.AllowAnonymous)
	v.SetDefault("signable_status", string(def.SignableStatus))
	v.SetDefault("review_policy", string(def.ReviewPolicy))

	v.SetEnvPrefix("PETITIONS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return petition.Rules{}, fmt.Errorf("read rules file: %w", err)
		}
	}

	var rules petition.Rules
	if err := v.Unmarshal(&rules); err != nil {
		return petition.Rules{}, fmt.Errorf("unmarshal rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return petition.Rules{}, fmt.Errorf("invalid rules: %w", err)
	}
	return rules, nil
}
