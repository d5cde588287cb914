package utils

import "github.com/mitchellh/mapstructure"

// StructToMap flattens obj into stream values keyed by its mapstructure tags.
func StructToMap(obj interface{}) (map[string]interface{}, error) {
	data := make(map[string]interface{})
	if err := mapstructure.Decode(obj, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func MergeMap(a, b map[string]interface{}) map[string]interface{} {
	for k, v := range b {
		a[k] = v
	}
	return a
}
