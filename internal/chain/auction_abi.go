package chain

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const auctionABIJSON = `[
  {
    "inputs": [],
    "name": "getCurrentAuction",
    "outputs": [
      {
        "components": [
          {"internalType": "uint256", "name": "auctionId", "type": "uint256"},
          {"internalType": "uint256", "name": "tokenId", "type": "uint256"},
          {"internalType": "address", "name": "nftOwner", "type": "address"},
          {"internalType": "uint8", "name": "state", "type": "uint8"},
          {"internalType": "uint8", "name": "auctionType", "type": "uint8"},
          {"internalType": "uint256", "name": "startPrice", "type": "uint256"},
          {"internalType": "uint256", "name": "startTime", "type": "uint256"},
          {"internalType": "uint256", "name": "endTime", "type": "uint256"},
          {"internalType": "address", "name": "higherBidder", "type": "address"},
          {"internalType": "uint256", "name": "higherBid", "type": "uint256"},
          {"internalType": "uint256", "name": "minimumBidChangeAmount", "type": "uint256"}
        ],
        "internalType": "struct Auction",
        "name": "",
        "type": "tuple"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	auctionABI     abi.ABI
	auctionABIOnce sync.Once
	auctionABIErr  error
)

func auctionABIInstance() (abi.ABI, error) {
	auctionABIOnce.Do(func() {
		auctionABI, auctionABIErr = abi.JSON(strings.NewReader(auctionABIJSON))
	})
	return auctionABI, auctionABIErr
}
