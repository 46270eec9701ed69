package analytics

import (
	"strings"

	"github.com/array/applications-console/internal/integrations/accountapi"
)

// Fallback buckets for missing or out-of-set values
const (
	BucketUnknown = "UNKNOWN"
	BucketOther   = "OTHER"
	BucketNoCard  = "NO_CARD"
)

// enumKey returns the upper-cased value when it belongs to the closed set, else fallback
func enumKey[T ~string](v *T, valid func(T) bool, fallback string) string {
	if v == nil {
		return fallback
	}
	k := T(strings.ToUpper(strings.TrimSpace(string(*v))))
	if !valid(k) {
		return fallback
	}
	return string(k)
}

// distribute groups apps by keyOf and emits one slice per key in first-seen order
func distribute(apps []accountapi.AccountApplication, keyOf func(*accountapi.AccountApplication) string, labelOf func(string) string) []Slice {
	index := make(map[string]int)
	out := []Slice{}
	for i := range apps {
		key := keyOf(&apps[i])
		if pos, ok := index[key]; ok {
			out[pos].Count++
			continue
		}
		index[key] = len(out)
		out = append(out, Slice{
			Key:   key,
			Label: labelOf(key),
			Count: 1,
			Color: PaletteColor(len(out)),
		})
	}
	return out
}

func underscoreLabel(key string) string {
	return strings.Replace(key, "_", " ", 1)
}

func cardTypeLabel(key string) string {
	if key == BucketNoCard {
		return "No Card"
	}
	return key[:1] + strings.ToLower(key[1:])
}

func cardNetworkLabel(key string) string {
	if key == BucketNoCard {
		return "No Card"
	}
	return key
}

func accountTypeDistribution(apps []accountapi.AccountApplication) []Slice {
	return distribute(apps, func(a *accountapi.AccountApplication) string {
		return enumKey(a.AccountType, accountapi.AccountType.Valid, BucketUnknown)
	}, underscoreLabel)
}

func genderDistribution(apps []accountapi.AccountApplication) []Slice {
	return distribute(apps, func(a *accountapi.AccountApplication) string {
		return enumKey(a.Gender, accountapi.Gender.Valid, BucketOther)
	}, underscoreLabel)
}

func maritalDistribution(apps []accountapi.AccountApplication) []Slice {
	return distribute(apps, func(a *accountapi.AccountApplication) string {
		return enumKey(a.MaritalStatus, accountapi.MaritalStatus.Valid, BucketUnknown)
	}, underscoreLabel)
}

func occupationDistribution(apps []accountapi.AccountApplication) []Slice {
	out := distribute(apps, func(a *accountapi.AccountApplication) string {
		return enumKey(a.Occupation, accountapi.Occupation.Valid, BucketOther)
	}, underscoreLabel)
	for i := range out {
		if short := truncateLabel(out[i].Label, OccupationLabelBudget); short != out[i].Label {
			out[i].FullLabel = out[i].Label
			out[i].Label = short
		}
	}
	return out
}

func residentialDistribution(apps []accountapi.AccountApplication) []Slice {
	return distribute(apps, func(a *accountapi.AccountApplication) string {
		return enumKey(a.ResidentialStatus, accountapi.ResidentialStatus.Valid, BucketOther)
	}, underscoreLabel)
}

func cardTypeDistribution(apps []accountapi.AccountApplication) []Slice {
	return distribute(apps, func(a *accountapi.AccountApplication) string {
		return enumKey(a.CardType, accountapi.CardType.Valid, BucketNoCard)
	}, cardTypeLabel)
}

func cardNetworkDistribution(apps []accountapi.AccountApplication) []Slice {
	return distribute(apps, func(a *accountapi.AccountApplication) string {
		return enumKey(a.CardNetwork, accountapi.CardNetwork.Valid, BucketNoCard)
	}, cardNetworkLabel)
}
