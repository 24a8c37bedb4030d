package contracts

// ServiceNodeRewardsABI is the subset of the ServiceNodeRewards interface used by the
// liquidator: registry enumeration, the liquidation entry point and every declared error.
const ServiceNodeRewardsABI = `[
  {
    "inputs": [],
    "name": "allServiceNodeIDs",
    "outputs": [
      {
        "internalType": "uint64[]",
        "name": "ids",
        "type": "uint64[]"
      },
      {
        "internalType": "struct BN256G1.G1Point[]",
        "name": "pubkeys",
        "type": "tuple[]",
        "components": [
          {
            "internalType": "uint256",
            "name": "X",
            "type": "uint256"
          },
          {
            "internalType": "uint256",
            "name": "Y",
            "type": "uint256"
          }
        ]
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [
      {
        "internalType": "struct BN256G1.G1Point",
        "name": "blsPubkey",
        "type": "tuple",
        "components": [
          {
            "internalType": "uint256",
            "name": "X",
            "type": "uint256"
          },
          {
            "internalType": "uint256",
            "name": "Y",
            "type": "uint256"
          }
        ]
      },
      {
        "internalType": "uint256",
        "name": "timestamp",
        "type": "uint256"
      },
      {
        "internalType": "struct IServiceNodeRewards.BLSSignatureParams",
        "name": "blsSignature",
        "type": "tuple",
        "components": [
          {
            "internalType": "uint256",
            "name": "sigs0",
            "type": "uint256"
          },
          {
            "internalType": "uint256",
            "name": "sigs1",
            "type": "uint256"
          },
          {
            "internalType": "uint256",
            "name": "sigs2",
            "type": "uint256"
          },
          {
            "internalType": "uint256",
            "name": "sigs3",
            "type": "uint256"
          }
        ]
      },
      {
        "internalType": "uint64[]",
        "name": "ids",
        "type": "uint64[]"
      }
    ],
    "name": "liquidateBLSPublicKeyWithSignature",
    "outputs": [],
    "stateMutability": "nonpayable",
    "type": "function"
  },
  {
    "inputs": [
      {
        "internalType": "uint64",
        "name": "serviceNodeID",
        "type": "uint64"
      }
    ],
    "name": "BLSPubkeyAlreadyExists",
    "type": "error"
  },
  {
    "inputs": [
      {
        "internalType": "uint64",
        "name": "serviceNodeID",
        "type": "uint64"
      },
      {
        "internalType": "struct BN256G1.G1Point",
        "name": "blsPubkey",
        "type": "tuple",
        "components": [
          {
            "internalType": "uint256",
            "name": "X",
            "type": "uint256"
          },
          {
            "internalType": "uint256",
            "name": "Y",
            "type": "uint256"
          }
        ]
      }
    ],
    "name": "BLSPubkeyDoesNotMatch",
    "type": "error"
  },
  {
    "inputs": [
      {
        "internalType": "uint64",
        "name": "serviceNodeID",
        "type": "uint64"
      },
      {
        "internalType": "address",
        "name": "contributor",
        "type": "address"
      }
    ],
    "name": "CallerNotContributor",
    "type": "error"
  },
  {
    "inputs": [],
    "name": "ContractAlreadyStarted",
    "type": "error"
  },
  {
    "inputs": [],
    "name": "ContractNotStarted",
    "type": "error"
  },
  {
    "inputs": [],
    "name": "DeleteSentinelNodeNotAllowed",
    "type": "error"
  },
  {
    "inputs": [
      {
        "internalType": "uint64",
        "name": "serviceNodeID",
        "type": "uint64"
      },
      {
        "internalType": "address",
        "name": "recipient",
        "type": "address"
      }
    ],
    "name": "EarlierLeaveRequestMade",
    "type": "error"
  },
  {
    "inputs": [],
    "name": "EnforcedPause",
    "type": "error"
  },
  {
    "inputs": [],
    "name": "ExpectedPause",
    "type": "error"
  },
  {
    "inputs": [
      {
        "internalType": "uint256",
        "name": "numSigners",
        "type": "uint256"
      },
      {
        "internalType": "uint256",
        "name": "requiredSigners",
        "type": "uint256"
      }
    ],
    "name": "InsufficientBLSSignatures",
    "type": "error"
  },
  {
    "inputs": [],
    "name": "InvalidBLSProofOfPossession",
    "type": "error"
  },
  {
    "inputs": [],
    "name": "InvalidBLSSignature",
    "type": "error"
  },
  {
    "inputs": [
      {
        "internalType": "uint64",
        "name": "serviceNodeID",
        "type": "uint64"
      },
      {
        "internalType": "uint256",
        "name": "timestamp",
        "type": "uint256"
      },
      {
        "internalType": "uint256",
        "name": "currentTime",
        "type": "uint256"
      }
    ],
    "name": "LeaveRequestTooEarly",
    "type": "error"
  },
  {
    "inputs": [],
    "name": "MaxContributorsExceeded",
    "type": "error"
  },
  {
    "inputs": [],
    "name": "MaxPubkeyAggregationsExceeded",
    "type": "error"
  },
  {
    "inputs": [],
    "name": "NullPublicKey",
    "type": "error"
  },
  {
    "inputs": [
      {
        "internalType": "address",
        "name": "account",
        "type": "address"
      }
    ],
    "name": "OwnableUnauthorizedAccount",
    "type": "error"
  },
  {
    "inputs": [
      {
        "internalType": "address",
        "name": "operator",
        "type": "address"
      },
      {
        "internalType": "address",
        "name": "contributor",
        "type": "address"
      },
      {
        "internalType": "uint256",
        "name": "serviceNodeID",
        "type": "uint256"
      }
    ],
    "name": "RecipientAddressDoesNotMatch",
    "type": "error"
  },
  {
    "inputs": [
      {
        "internalType": "uint64",
        "name": "serviceNodeID",
        "type": "uint64"
      }
    ],
    "name": "RecipientAddressNotProvided",
    "type": "error"
  },
  {
    "inputs": [
      {
        "internalType": "uint64",
        "name": "serviceNodeID",
        "type": "uint64"
      }
    ],
    "name": "ServiceNodeDoesntExist",
    "type": "error"
  },
  {
    "inputs": [
      {
        "internalType": "uint64",
        "name": "serviceNodeID",
        "type": "uint64"
      },
      {
        "internalType": "uint256",
        "name": "timestamp",
        "type": "uint256"
      },
      {
        "internalType": "uint256",
        "name": "currentTime",
        "type": "uint256"
      }
    ],
    "name": "SignatureExpired",
    "type": "error"
  }
]`

// TokenVestingStakingABI covers the public state read by the vesting reporter.
const TokenVestingStakingABI = `[
  {
    "inputs": [],
    "name": "SESH",
    "outputs": [
      {
        "internalType": "contract IERC20",
        "name": "",
        "type": "address"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "beneficiary",
    "outputs": [
      {
        "internalType": "address",
        "name": "",
        "type": "address"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "revoked",
    "outputs": [
      {
        "internalType": "bool",
        "name": "",
        "type": "bool"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "revoker",
    "outputs": [
      {
        "internalType": "address",
        "name": "",
        "type": "address"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "rewardsContract",
    "outputs": [
      {
        "internalType": "contract IServiceNodeRewards",
        "name": "",
        "type": "address"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "snContribFactory",
    "outputs": [
      {
        "internalType": "contract IServiceNodeContributionFactory",
        "name": "",
        "type": "address"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "transferableBeneficiary",
    "outputs": [
      {
        "internalType": "bool",
        "name": "",
        "type": "bool"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`

// ERC20ABI is the token interface used to read vesting balances.
const ERC20ABI = `[
  {
    "inputs": [
      {
        "internalType": "address",
        "name": "account",
        "type": "address"
      }
    ],
    "name": "balanceOf",
    "outputs": [
      {
        "internalType": "uint256",
        "name": "",
        "type": "uint256"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "decimals",
    "outputs": [
      {
        "internalType": "uint8",
        "name": "",
        "type": "uint8"
      }
    ],
    "stateMutability": "view",
    "type": "function"
  }
]`
