package store

// Documents live under doc:{collection}:{id}. Collection names never contain ':'.
const docPrefix = "doc:"

func collectionPrefix(collection string) []byte {
	return []byte(docPrefix + collection + ":")
}

func docKey(collection, docID string) []byte {
	return []byte(docPrefix + collection + ":" + docID)
}
