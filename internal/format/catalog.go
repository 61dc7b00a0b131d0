package format

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. English output uses the keys verbatim.
const (
	msgUsage        = "Please enter a package name, e.g. pkg linux [core]"
	msgNetworkError = "Network error or timeout while querying the official repositories!"
	msgParseError   = "Could not parse the official repository response!"
	msgOtherError   = "Error while processing official repository data!"
	msgNotFound     = "No package named '%s' was found in the official repositories or the AUR."

	labelRepo         = "Repository: "
	labelName         = "Name: "
	labelVersion      = "Version: "
	labelDescription  = "Description: "
	labelPackager     = "Packager: "
	labelUpstream     = "Upstream: "
	labelLastUpdate   = "Last update: "
	labelMaintainer   = "Maintainer: "
	labelOutOfDate    = "Out of date: "
	labelLastModified = "Last modified: "
	labelVotes        = "Votes: "
	labelAURLink      = "AUR link: "

	valueNA       = "N/A"
	valueOrphaned = "orphaned"
	valueNone     = "None"
)

var supported = []language.Tag{
	language.English,
	language.Chinese,
}

var matcher = language.NewMatcher(supported)

func init() {
	for key, msg := range map[string]string{
		msgUsage:        "请输入包名,例如,pkg linux [core]",
		msgNetworkError: "查询官方仓库时网络错误或超时！",
		msgParseError:   "无法解析官方仓库的响应！",
		msgOtherError:   "处理官方仓库数据时出错！",
		msgNotFound:     "没有在官方仓库或 AUR 中找到名为 '%s' 的相关软件。",

		labelRepo:         "仓库：",
		labelName:         "包名：",
		labelVersion:      "版本：",
		labelDescription:  "描述：",
		labelPackager:     "打包：",
		labelUpstream:     "上游：",
		labelLastUpdate:   "更新日期：",
		labelMaintainer:   "维护者：",
		labelOutOfDate:    "过期时间：",
		labelLastModified: "更新时间：",
		labelVotes:        "投票：",
		labelAURLink:      "AUR 链接：",

		valueOrphaned: "孤儿包",
		valueNone:     "无",
	} {
		if err := message.SetString(language.Chinese, key, msg); err != nil {
			panic(err)
		}
	}
}

// matchLanguage maps a user supplied language to a supported catalog
func matchLanguage(lang string) language.Tag {
	tag, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	_, idx, _ := matcher.Match(tag)
	return supported[idx]
}
