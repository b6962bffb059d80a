package arena

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const managerABIJSON = `[
  {
    "inputs": [
      {"internalType": "uint256", "name": "entryFee", "type": "uint256"},
      {"internalType": "uint32", "name": "maxPlayers", "type": "uint32"},
      {"internalType": "uint32", "name": "minPlayers", "type": "uint32"},
      {"internalType": "uint32", "name": "roundDuration", "type": "uint32"},
      {"internalType": "uint32", "name": "startDeadline", "type": "uint32"}
    ],
    "name": "createPool",
    "outputs": [{"internalType": "uint256", "name": "poolId", "type": "uint256"}],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "poolId", "type": "uint256"}],
    "name": "joinPool",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "poolId", "type": "uint256"},
      {"internalType": "uint8", "name": "choice", "type": "uint8"}
    ],
    "name": "submitChoice",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "poolId", "type": "uint256"}],
    "name": "resolveRound",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "poolId", "type": "uint256"}],
    "name": "claimWinnings",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "poolId", "type": "uint256"}],
    "name": "claimRefund",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "amount", "type": "uint256"}],
    "name": "depositCreatorStake",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "withdrawCreatorStake",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "poolId", "type": "uint256"}],
    "name": "getPoolConfig",
    "outputs": [
      {
        "components": [
          {"internalType": "address", "name": "host", "type": "address"},
          {"internalType": "uint256", "name": "entryFee", "type": "uint256"},
          {"internalType": "uint32", "name": "maxPlayers", "type": "uint32"},
          {"internalType": "uint32", "name": "minPlayers", "type": "uint32"},
          {"internalType": "uint32", "name": "roundDuration", "type": "uint32"},
          {"internalType": "uint32", "name": "startDeadline", "type": "uint32"}
        ],
        "internalType": "struct ArenaManager.PoolConfig",
        "name": "",
        "type": "tuple"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "poolId", "type": "uint256"}],
    "name": "getPoolState",
    "outputs": [
      {
        "components": [
          {"internalType": "uint8", "name": "status", "type": "uint8"},
          {"internalType": "uint32", "name": "currentRound", "type": "uint32"},
          {"internalType": "uint32", "name": "survivorCount", "type": "uint32"},
          {"internalType": "uint32", "name": "playerCount", "type": "uint32"},
          {"internalType": "uint256", "name": "totalDeposited", "type": "uint256"},
          {"internalType": "uint256", "name": "roundDeadline", "type": "uint256"},
          {"internalType": "address", "name": "winner", "type": "address"}
        ],
        "internalType": "struct ArenaManager.PoolState",
        "name": "",
        "type": "tuple"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "uint256", "name": "poolId", "type": "uint256"},
      {"internalType": "address", "name": "player", "type": "address"}
    ],
    "name": "getPlayerInfo",
    "outputs": [
      {
        "components": [
          {"internalType": "bool", "name": "isActive", "type": "bool"},
          {"internalType": "bool", "name": "hasClaimed", "type": "bool"},
          {"internalType": "uint32", "name": "roundEliminated", "type": "uint32"},
          {"internalType": "uint8", "name": "lastChoice", "type": "uint8"}
        ],
        "internalType": "struct ArenaManager.PlayerInfo",
        "name": "",
        "type": "tuple"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint256", "name": "poolId", "type": "uint256"}],
    "name": "pendingPayout",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "poolCount",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "address", "name": "", "type": "address"}],
    "name": "creatorStake",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "address", "name": "creator", "type": "address"}],
    "name": "creatorActivePools",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "uint256", "name": "poolId", "type": "uint256"},
      {"indexed": true, "internalType": "address", "name": "host", "type": "address"},
      {"indexed": false, "internalType": "uint256", "name": "entryFee", "type": "uint256"},
      {"indexed": false, "internalType": "uint32", "name": "maxPlayers", "type": "uint32"}
    ],
    "name": "PoolCreated",
    "type": "event"
  }
]`

const erc20ABIJSON = `[
  {
    "inputs": [
      {"internalType": "address", "name": "spender", "type": "address"},
      {"internalType": "uint256", "name": "amount", "type": "uint256"}
    ],
    "name": "approve",
    "outputs": [{"internalType": "bool", "name": "", "type": "bool"}],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {"internalType": "address", "name": "owner", "type": "address"},
      {"internalType": "address", "name": "spender", "type": "address"}
    ],
    "name": "allowance",
    "outputs": [{"internalType": "uint256", "name": "", "type": "uint256"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	managerABI     abi.ABI
	managerABIOnce sync.Once
	managerABIErr  error
	erc20ABI       abi.ABI
	erc20ABIOnce   sync.Once
	erc20ABIErr    error
)

// ManagerABI returns the parsed ArenaManager ABI.
func ManagerABI() (abi.ABI, error) {
	managerABIOnce.Do(func() {
		managerABI, managerABIErr = abi.JSON(strings.NewReader(managerABIJSON))
	})
	return managerABI, managerABIErr
}

// ERC20ABI returns the parsed ERC20 allowance/approve ABI.
func ERC20ABI() (abi.ABI, error) {
	erc20ABIOnce.Do(func() {
		erc20ABI, erc20ABIErr = abi.JSON(strings.NewReader(erc20ABIJSON))
	})
	return erc20ABI, erc20ABIErr
}
