package validators

import "regexp"

// medical license numbers look like AAA-123456
var licensePattern = regexp.MustCompile(`^[A-Z]{3}-\d{6}$`)

func IsLicenseNumberValid(license string) bool {
	return licensePattern.MatchString(license)
}
