package format

import (
	"fmt"
	"strconv"
	"strings"
)

func ToString(messages ...any) string {
	var builder strings.Builder
	for _, rawMessage := range messages {
		if rawMessage == nil {
			continue
		}
		switch message := rawMessage.(type) {
		case string:
			builder.WriteString(message)
		case bool:
			builder.WriteString(strconv.FormatBool(message))
		case uint8:
			builder.WriteString(strconv.FormatUint(uint64(message), 10))
		case uint16:
			builder.WriteString(strconv.FormatUint(uint64(message), 10))
		case uint32:
			builder.WriteString(strconv.FormatUint(uint64(message), 10))
		case uint64:
			builder.WriteString(strconv.FormatUint(message, 10))
		case int8:
			builder.WriteString(strconv.FormatInt(int64(message), 10))
		case int16:
			builder.WriteString(strconv.FormatInt(int64(message), 10))
		case int32:
			builder.WriteString(strconv.FormatInt(int64(message), 10))
		case int64:
			builder.WriteString(strconv.FormatInt(message, 10))
		case int:
			builder.WriteString(strconv.Itoa(message))
		case uint:
			builder.WriteString(strconv.FormatUint(uint64(message), 10))
		case uintptr:
			builder.WriteString(strconv.FormatUint(uint64(message), 10))
		case error:
			builder.WriteString(message.Error())
		case fmt.Stringer:
			builder.WriteString(message.String())
		default:
			builder.WriteString(fmt.Sprint(message))
		}
	}
	return builder.String()
}

func MapToString[T any](arr []T) []string {
	result := make([]string, 0, len(arr))
	for _, item := range arr {
		result = append(result, ToString(item))
	}
	return result
}
