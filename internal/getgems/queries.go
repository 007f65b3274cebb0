package getgems

const nftFields = `
	address
	name
	description
	collection {
		name
		address
	}
	owner {
		address
	}
	sale {
		fullPrice
	}
	content {
		image {
			small
			medium
			large
		}
	}
	attributes {
		traitType
		value
	}
`

const collectionItemsQuery = `
query GetCollectionItems($collectionAddress: String!, $limit: Int!, $offset: Int!) {
	nftItems(
		filter: { collection: { address: { eq: $collectionAddress } } }
		first: $limit
		offset: $offset
	) {
		edges {
			node {` + nftFields + `}
		}
	}
}`

const nftItemQuery = `
query GetNftItem($address: String!) {
	nftItemByAddress(address: $address) {` + nftFields + `}
}`

const collectionQuery = `
query GetCollection($address: String!) {
	nftCollectionByAddress(address: $address) {
		address
		name
		description
		approximateItemsCount
		owner {
			address
		}
	}
}`
