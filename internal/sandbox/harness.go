package sandbox

import "fmt"

// Kind is the invocation protocol a challenge's generated code must satisfy.
// Most challenges are plain functions of their arguments (KindGeneric); a
// handful target abstractions that need a dedicated driver. The executor
// dispatches on this tag, so new protocols only need a registry entry and a
// driver, never a change to the dispatch loop.
type Kind string

const (
	KindGeneric      Kind = "generic"
	KindCurry        Kind = "curry"
	KindPromisePool  Kind = "pool"
	KindLRUCache     Kind = "cache"
	KindEventEmitter Kind = "emitter"
	KindTrie         Kind = "trie"
	KindRateLimiter  Kind = "ratelimiter"
)

type harnessSpec struct {
	// exportExpr is the expression appended to the sandboxed wrapper to pull
	// the submission's entry point(s) out of its scope.
	exportExpr func(functionName string) string
	// driver is the name of the JS driver that replays the protocol, or ""
	// for the generic spread-and-call path.
	driver string
	// async marks drivers whose result is a promise that must be settled by
	// pumping the virtual timer queue.
	async bool
	// exports lists the property names that must be functions when the
	// export expression yields an object instead of a single function.
	exports []string
}

var registry = map[Kind]harnessSpec{
	KindGeneric: {
		exportExpr: func(fn string) string { return fn },
	},
	KindCurry: {
		exportExpr: func(string) string { return "curry" },
		driver:     "__driveCurry",
	},
	KindPromisePool: {
		exportExpr: func(string) string { return "promisePool" },
		driver:     "__drivePromisePool",
		async:      true,
	},
	KindLRUCache: {
		exportExpr: func(string) string { return "LRUCache" },
		driver:     "__driveLRUCache",
	},
	KindEventEmitter: {
		exportExpr: func(string) string { return "EventEmitter" },
		driver:     "__driveEventEmitter",
	},
	KindTrie: {
		exportExpr: func(string) string { return "({ buildTrie: buildTrie, search: search })" },
		driver:     "__driveTrie",
		exports:    []string{"buildTrie", "search"},
	},
	KindRateLimiter: {
		exportExpr: func(string) string { return "rateLimiter" },
		driver:     "__driveRateLimiter",
	},
}

// KindFor validates a stored harness kind string.
func KindFor(s string) (Kind, error) {
	if s == "" {
		return KindGeneric, nil
	}
	k := Kind(s)
	if _, ok := registry[k]; !ok {
		return "", fmt.Errorf("unknown harness kind %q", s)
	}
	return k, nil
}

// Kinds returns every registered harness kind, for admin input validation.
func Kinds() []Kind {
	out := make([]Kind, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	return out
}

// helperSrc is evaluated once per VM before the submission runs. It holds the
// key-order-independent stringifier used for result comparison and one driver
// per specialized protocol. Driver inputs arrive as already-parsed JSON
// objects; drivers return the observable value the test compares against.
const helperSrc = `
function __stableStringify(value) {
	if (value === null || value === undefined) return String(JSON.stringify(value));
	if (typeof value !== "object") return String(JSON.stringify(value));
	if (Array.isArray(value)) {
		return "[" + value.map(__stableStringify).join(",") + "]";
	}
	var keys = Object.keys(value).sort();
	return "{" + keys.map(function (k) {
		return JSON.stringify(k) + ":" + __stableStringify(value[k]);
	}).join(",") + "}";
}

function __stableOfJSON(text) {
	return __stableStringify(JSON.parse(text));
}

function __driveCurry(curry, input) {
	var base = function () {
		var total = 0;
		for (var i = 0; i < arguments.length; i++) total += arguments[i];
		return total;
	};
	Object.defineProperty(base, "length", { value: input.arity });
	var curried = curry(base);
	var v = input.values;
	if (input.mode === "single") return curried(v[0])(v[1]);
	if (input.mode === "grouped") return curried(v[0], v[1]);
	if (input.mode === "partial") return curried(v[0])(v[1], v[2]);
	return curried(v[0], v[1])(v[2]);
}

function __drivePromisePool(promisePool, input) {
	var tasks = input.values.map(function (value, index) {
		return function () {
			return new Promise(function (resolve) {
				setTimeout(function () { resolve(value); }, (input.delays && input.delays[index]) || 0);
			});
		};
	});
	return promisePool(tasks, input.limit);
}

function __driveLRUCache(LRUCache, input) {
	var cache = new LRUCache(input.capacity);
	return input.ops.map(function (op) {
		if (op[0] === "put") {
			cache.put(op[1], op[2]);
			return null;
		}
		return cache.get(op[1]);
	});
}

function __driveEventEmitter(EventEmitter, input) {
	var emitter = EventEmitter();
	var observed = [];
	var listener = function (a, b) { observed.push(a + b); };
	emitter.on(input.event, listener);
	input.emits.forEach(function (args, idx) {
		emitter.emit.apply(emitter, [input.event].concat(args));
		if (input.removeAfterFirst && idx === 0) emitter.off(input.event, listener);
	});
	return observed;
}

function __driveTrie(fns, input) {
	var trie = fns.buildTrie(input.words);
	return fns.search(trie, input.prefix);
}

function __driveRateLimiter(rateLimiter, input) {
	var allow = rateLimiter(input.limit, input.windowMs);
	return input.ids.map(function (id) { return allow(id); });
}
`
