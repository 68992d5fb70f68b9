package util

import "github.com/SeakMengs/Annotator/internal/constant"

func GetAppName() string {
	return constant.APP_NAME
}

func GetAppLogoURL(frontURL string) string {
	return frontURL + "/logo.png"
}
